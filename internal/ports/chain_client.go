package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
)

type TableRowsRequest struct {
	Code  domain.AccountName
	Scope string
	Table string
	// Type is the index key type; empty uses the primary index.
	Type  string
	Limit int
}

type ChainInfo struct {
	ChainID       domain.ChainID
	HeadBlockNum  uint32
	HeadBlockTime time.Time
}

type ChainClient interface {
	GetAccount(ctx context.Context, name domain.AccountName) (domain.Account, error)
	GetTableRows(ctx context.Context, req TableRowsRequest) ([]json.RawMessage, error)
	GetCurrencyBalance(ctx context.Context, contract, account domain.AccountName, symbol string) ([]domain.Asset, error)
	GetInfo(ctx context.Context) (ChainInfo, error)
}
