// Package rpctest serves a canned /v1/chain API for tests that need a
// node behind a real HTTP client.
package rpctest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const ChainID = "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906"

const PowerUpState = `{
  "version": 0,
  "net": {
    "version": 0,
    "weight": "1000000000000",
    "weight_ratio": "10000000000000",
    "assumed_stake_weight": "944076307",
    "initial_weight_ratio": "1000000000000000",
    "target_weight_ratio": "10000000000000",
    "initial_timestamp": "2021-03-12T19:53:08.000",
    "target_timestamp": "2021-07-10T19:53:08.000",
    "exponent": "2.00000000000000000",
    "decay_secs": 86400,
    "min_price": "0.0000 EOS",
    "max_price": "5000000.0000 EOS",
    "utilization": "100000000000",
    "adjusted_utilization": "100000000000",
    "utilization_timestamp": "2026-02-14T10:00:00.000"
  },
  "cpu": {
    "version": 0,
    "weight": "1000000000000",
    "weight_ratio": "10000000000000",
    "assumed_stake_weight": "944076307",
    "initial_weight_ratio": "1000000000000000",
    "target_weight_ratio": "10000000000000",
    "initial_timestamp": "2021-03-12T19:53:08.000",
    "target_timestamp": "2021-07-10T19:53:08.000",
    "exponent": "2.00000000000000000",
    "decay_secs": 86400,
    "min_price": "0.0000 EOS",
    "max_price": "5000000.0000 EOS",
    "utilization": "500000000000",
    "adjusted_utilization": "600000000000",
    "utilization_timestamp": "2026-02-14T10:00:00.000"
  },
  "powerup_days": 1,
  "min_powerup_fee": "0.0001 EOS"
}`

const REXPool = `{
  "version": 0,
  "total_lent": "50000000.0000 EOS",
  "total_unlent": "10000000.0000 EOS",
  "total_rent": "20000.0000 EOS",
  "total_lendable": "60000000.0000 EOS",
  "total_rex": "600000000000.0000 REX",
  "namebid_proceeds": "0.0000 EOS",
  "loan_num": 1234
}`

const SampleAccount = `{
  "account_name": "sampler",
  "core_liquid_balance": "1.0000 EOS",
  "ram_quota": 8000,
  "ram_usage": 4000,
  "cpu_weight": 10000,
  "net_weight": 10000,
  "cpu_limit": {"used": 100, "available": 400, "max": 500},
  "net_limit": {"used": 10, "available": 990, "max": 1000}
}`

const UserAccount = `{
  "account_name": "alice",
  "core_liquid_balance": "42.5000 EOS",
  "ram_quota": 10000,
  "ram_usage": 2500,
  "cpu_weight": 20000,
  "net_weight": 5000,
  "cpu_limit": {"used": 250, "available": 750, "max": 1000},
  "net_limit": {"used": 100, "available": 400, "max": 500}
}`

// Node is a fake chain node. Accounts, Rows and Balances may be changed
// before the first request; use the setters afterwards.
type Node struct {
	*httptest.Server

	mu       sync.Mutex
	Accounts map[string]string
	Rows     map[string][]string
	Balances map[string][]string
	// Delay is applied to every response.
	Delay time.Duration

	requests sync.Map
}

// NewNode starts a node serving the fixtures above. "alice" and
// "sampler" exist, "eosusd" datapoints median to 0.75.
func NewNode(t testing.TB) *Node {
	t.Helper()

	node := &Node{
		Accounts: map[string]string{
			"alice":   UserAccount,
			"sampler": SampleAccount,
		},
		Rows: map[string][]string{
			"powup.state": {PowerUpState},
			"rexpool":     {REXPool},
			"datapoints":  {`{"id":1,"value":"7400"}`, `{"id":2,"value":"7500"}`, `{"id":3,"value":"7600"}`},
		},
		Balances: map[string][]string{
			"eosio.token/alice": {"42.5000 EOS"},
		},
	}
	node.Server = httptest.NewServer(http.HandlerFunc(node.serve))
	t.Cleanup(node.Close)

	return node
}

// Requests is the number of calls made to endpoint, e.g. "get_account".
func (n *Node) Requests(endpoint string) int64 {
	counter, ok := n.requests.Load(endpoint)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int64).Load()
}

func (n *Node) SetAccount(name, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Accounts[name] = body
}

func (n *Node) SetDelay(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Delay = d
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path[len("/v1/chain/"):]
	counter, _ := n.requests.LoadOrStore(endpoint, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)

	n.mu.Lock()
	delay := n.Delay
	n.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	var body map[string]any
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch endpoint {
	case "get_info":
		_, _ = io.WriteString(w, `{"chain_id":"`+ChainID+`","head_block_num":1000,"head_block_time":"2026-02-14T11:00:00.000"}`)
	case "get_account":
		name, _ := body["account_name"].(string)
		account, ok := n.Accounts[name]
		if !ok {
			writeError(w, http.StatusInternalServerError, "unknown key")
			return
		}
		_, _ = io.WriteString(w, account)
	case "get_table_rows":
		table, _ := body["table"].(string)
		rows := n.Rows[table]
		_, _ = io.WriteString(w, `{"rows":[`+strings.Join(rows, ",")+`],"more":false}`)
	case "get_currency_balance":
		code, _ := body["code"].(string)
		account, _ := body["account"].(string)
		encoded, _ := json.Marshal(n.Balances[code+"/"+account])
		if n.Balances[code+"/"+account] == nil {
			encoded = []byte("[]")
		}
		_, _ = w.Write(encoded)
	default:
		writeError(w, http.StatusNotFound, "unknown endpoint")
	}
}

func writeError(w http.ResponseWriter, status int, what string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoded, _ := json.Marshal(map[string]any{
		"code":    status,
		"message": "Internal Service Error",
		"error":   map[string]any{"what": what},
	})
	_, _ = w.Write(encoded)
}
