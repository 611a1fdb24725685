package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	"github.com/tidwall/gjson"
)

const (
	maxResponseBytes = 4 << 20
	userAgent        = "wr/rpc"
	nodeTimeLayout   = "2006-01-02T15:04:05.999"
)

var (
	ErrNodeStatus      = errors.New("node returned error status")
	ErrMalformedReply  = errors.New("malformed node response")
	errEmptyAccountArg = errors.New("account name is empty")
)

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

var _ ports.ChainClient = (*Client)(nil)

// NewClient talks to the /v1/chain API of a node. A zero timeout leaves
// request lifetimes to the caller's context.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}
}

func (c *Client) GetAccount(ctx context.Context, name domain.AccountName) (domain.Account, error) {
	if strings.TrimSpace(string(name)) == "" {
		return domain.Account{}, errEmptyAccountArg
	}

	body, err := c.call(ctx, "get_account", map[string]any{"account_name": name})
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %s: %w", name, err)
	}

	account, err := decodeAccount(body)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %s: %w", name, err)
	}

	return account, nil
}

func (c *Client) GetTableRows(ctx context.Context, req ports.TableRowsRequest) ([]json.RawMessage, error) {
	payload := map[string]any{
		"json":  true,
		"code":  req.Code,
		"scope": req.Scope,
		"table": req.Table,
	}
	if req.Type != "" {
		payload["key_type"] = req.Type
	}
	if req.Limit > 0 {
		payload["limit"] = req.Limit
	}

	body, err := c.call(ctx, "get_table_rows", payload)
	if err != nil {
		return nil, fmt.Errorf("get table rows %s/%s/%s: %w", req.Code, req.Scope, req.Table, err)
	}

	rows := gjson.GetBytes(body, "rows")
	if !rows.IsArray() {
		return nil, fmt.Errorf("get table rows %s/%s/%s: %w: rows is not an array", req.Code, req.Scope, req.Table, ErrMalformedReply)
	}

	result := make([]json.RawMessage, 0, len(rows.Array()))
	for _, row := range rows.Array() {
		result = append(result, json.RawMessage(row.Raw))
	}

	return result, nil
}

func (c *Client) GetCurrencyBalance(ctx context.Context, contract, account domain.AccountName, symbol string) ([]domain.Asset, error) {
	payload := map[string]any{"code": contract, "account": account}
	if symbol != "" {
		payload["symbol"] = symbol
	}

	body, err := c.call(ctx, "get_currency_balance", payload)
	if err != nil {
		return nil, fmt.Errorf("get currency balance %s@%s: %w", account, contract, err)
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("get currency balance %s@%s: %w: %v", account, contract, ErrMalformedReply, err)
	}

	assets := make([]domain.Asset, 0, len(raw))
	for _, entry := range raw {
		asset, err := domain.ParseAsset(entry)
		if err != nil {
			return nil, fmt.Errorf("get currency balance %s@%s: %w", account, contract, err)
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

func (c *Client) GetInfo(ctx context.Context) (ports.ChainInfo, error) {
	body, err := c.call(ctx, "get_info", nil)
	if err != nil {
		return ports.ChainInfo{}, fmt.Errorf("get info: %w", err)
	}

	info := gjson.ParseBytes(body)
	chainID := info.Get("chain_id").String()
	if chainID == "" {
		return ports.ChainInfo{}, fmt.Errorf("get info: %w: chain_id missing", ErrMalformedReply)
	}

	return ports.ChainInfo{
		ChainID:       domain.ChainID(chainID),
		HeadBlockNum:  uint32(info.Get("head_block_num").Uint()),
		HeadBlockTime: parseNodeTime(info.Get("head_block_time").String()),
	}, nil
}

func (c *Client) call(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chain/"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", userAgent)

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := gjson.GetBytes(body, "error.what").String()
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrNodeStatus, response.StatusCode, message)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedReply)
	}

	return body, nil
}

func decodeAccount(body []byte) (domain.Account, error) {
	res := gjson.ParseBytes(body)
	name := res.Get("account_name").String()
	if name == "" {
		return domain.Account{}, fmt.Errorf("%w: account_name missing", ErrMalformedReply)
	}

	account := domain.Account{
		Name:      domain.AccountName(name),
		RAMQuota:  res.Get("ram_quota").Int(),
		RAMUsage:  res.Get("ram_usage").Int(),
		CPUWeight: res.Get("cpu_weight").Int(),
		NetWeight: res.Get("net_weight").Int(),
		CPULimit:  decodeLimit(res.Get("cpu_limit")),
		NetLimit:  decodeLimit(res.Get("net_limit")),
	}

	if balance := res.Get("core_liquid_balance"); balance.Exists() && balance.String() != "" {
		asset, err := domain.ParseAsset(balance.String())
		if err != nil {
			return domain.Account{}, err
		}
		account.CoreLiquidBalance = asset
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	account.Raw = json.RawMessage(compact.Bytes())

	return account, nil
}

func decodeLimit(res gjson.Result) domain.ResourceLimit {
	return domain.ResourceLimit{
		Used:      res.Get("used").Int(),
		Available: res.Get("available").Int(),
		Max:       res.Get("max").Int(),
	}
}

func parseNodeTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(nodeTimeLayout, strings.TrimSuffix(raw, "Z"))
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}
