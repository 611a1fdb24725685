package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	"go.uber.org/zap"
)

const DefaultOracleContract domain.AccountName = "delphioracle"

const (
	DefaultPriceInterval = 30 * time.Second

	datapointsTable = "datapoints"
	datapointsLimit = 21
)

var ErrNoDatapoints = errors.New("oracle returned no datapoints")

// PriceFeed polls an oracle pair and patches the price of one token.
type PriceFeed struct {
	client   ports.ChainClient
	clock    ports.Clock
	contract domain.AccountName
	pair     string
	poller   *Poller[domain.PricePoint]
}

func NewPriceFeed(
	client ports.ChainClient,
	registry *TokenRegistry,
	contract domain.AccountName,
	pair string,
	token domain.TokenKey,
	interval time.Duration,
	clock ports.Clock,
	logger *zap.Logger,
) *PriceFeed {
	if contract == "" {
		contract = DefaultOracleContract
	}
	if interval <= 0 {
		interval = DefaultPriceInterval
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	feed := &PriceFeed{client: client, clock: clock, contract: contract, pair: pair}
	feed.poller = NewPoller("price:"+pair, interval, feed.fetch, logger, clock)
	feed.poller.Subscribe(func(snapshot Snapshot[domain.PricePoint]) {
		err := registry.ApplyPrice(token, snapshot.Value.Price, snapshot.Value.Timestamp)
		if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			logger.Warn("apply price failed", zap.String("token", string(token)), zap.Error(err))
		}
	})

	return feed
}

func (f *PriceFeed) Poller() *Poller[domain.PricePoint] {
	return f.poller
}

func (f *PriceFeed) fetch(ctx context.Context) (domain.PricePoint, error) {
	rows, err := f.client.GetTableRows(ctx, ports.TableRowsRequest{
		Code:  f.contract,
		Scope: f.pair,
		Table: datapointsTable,
		Limit: datapointsLimit,
	})
	if err != nil {
		return domain.PricePoint{}, err
	}

	price, ok := domain.MedianPrice(decodeDatapoints(rows))
	if !ok {
		return domain.PricePoint{}, fmt.Errorf("%s/%s: %w", f.contract, f.pair, ErrNoDatapoints)
	}

	return domain.PricePoint{Pair: f.pair, Price: price, Timestamp: f.clock.Now().UTC()}, nil
}
