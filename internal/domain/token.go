package domain

import (
	"strings"
	"time"
)

type TokenKey string

var tokenKeyEscaper = strings.NewReplacer("%", "%25", "-", "%2d")

// MakeTokenKey builds the case-insensitive identity of a token. Components
// are escaped so distinct tuples never collide. Inputs are used verbatim
// apart from case; trimming belongs to whoever parses them.
func MakeTokenKey(chainID ChainID, contract AccountName, symbol string) TokenKey {
	parts := []string{string(chainID), string(contract), symbol}
	for i, part := range parts {
		parts[i] = tokenKeyEscaper.Replace(strings.ToLower(part))
	}

	return TokenKey(strings.Join(parts, "-"))
}

type Token struct {
	Key          TokenKey    `json:"key"`
	ChainID      ChainID     `json:"chain_id"`
	Contract     AccountName `json:"contract"`
	Symbol       Symbol      `json:"symbol"`
	Name         string      `json:"name"`
	Logo         string      `json:"logo,omitempty"`
	Price        *float64    `json:"price,omitempty"`
	PriceUpdated time.Time   `json:"price_updated,omitempty"`
}

// TokenMetadata is the display information known for a token.
type TokenMetadata struct {
	ChainID  ChainID
	Contract AccountName
	Symbol   Symbol
	Name     string
	Logo     string
}

func (m TokenMetadata) Key() TokenKey {
	return MakeTokenKey(m.ChainID, m.Contract, m.Symbol.Code)
}

type Balance struct {
	Key      TokenKey    `json:"key"`
	ChainID  ChainID     `json:"chain_id"`
	Account  AccountName `json:"account"`
	Contract AccountName `json:"contract"`
	Asset    Asset       `json:"asset"`
}

// Value is the balance priced in the token's quote currency.
func (b Balance) Value(token Token) (float64, bool) {
	if token.Price == nil {
		return 0, false
	}
	return b.Asset.Float() * *token.Price, true
}
