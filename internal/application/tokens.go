package application

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
)

type tokenPrice struct {
	value float64
	at    time.Time
}

// TokenRegistry holds the tokens of the active session. The set is
// rebuilt wholesale; prices are patched in place and survive rebuilds.
type TokenRegistry struct {
	mu     sync.RWMutex
	tokens map[domain.TokenKey]domain.Token
	prices map[domain.TokenKey]tokenPrice
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		tokens: map[domain.TokenKey]domain.Token{},
		prices: map[domain.TokenKey]tokenPrice{},
	}
}

// Rebuild replaces the token set with the known metadata plus one entry
// for every balance whose token has no metadata.
func (r *TokenRegistry) Rebuild(metadata []domain.TokenMetadata, balances []domain.Balance) {
	tokens := make(map[domain.TokenKey]domain.Token, len(metadata)+len(balances))

	for _, meta := range metadata {
		key := meta.Key()
		tokens[key] = domain.Token{
			Key:      key,
			ChainID:  meta.ChainID,
			Contract: meta.Contract,
			Symbol:   meta.Symbol,
			Name:     meta.Name,
			Logo:     meta.Logo,
		}
	}
	for _, balance := range balances {
		if _, ok := tokens[balance.Key]; ok {
			continue
		}
		tokens[balance.Key] = domain.Token{
			Key:      balance.Key,
			ChainID:  balance.ChainID,
			Contract: balance.Contract,
			Symbol:   balance.Asset.Symbol,
			Name:     balance.Asset.Symbol.Code,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, token := range tokens {
		if price, ok := r.prices[key]; ok {
			value := price.value
			token.Price = &value
			token.PriceUpdated = price.at
			tokens[key] = token
		}
	}
	r.tokens = tokens
}

// ApplyPrice records a price for key. The price is kept for later rebuilds
// even when the token is not currently registered, in which case
// ErrTokenNotFound is returned.
func (r *TokenRegistry) ApplyPrice(key domain.TokenKey, price float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prices[key] = tokenPrice{value: price, at: at}

	token, ok := r.tokens[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTokenNotFound, key)
	}
	token.Price = &price
	token.PriceUpdated = at
	r.tokens[key] = token

	return nil
}

func (r *TokenRegistry) Get(key domain.TokenKey) (domain.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[key]
	if !ok {
		return domain.Token{}, fmt.Errorf("%w: %s", domain.ErrTokenNotFound, key)
	}
	return copyToken(token), nil
}

// List returns the registered tokens ordered by key.
func (r *TokenRegistry) List() []domain.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		list = append(list, copyToken(token))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

func copyToken(token domain.Token) domain.Token {
	if token.Price != nil {
		price := *token.Price
		token.Price = &price
	}
	return token
}
