package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	memorystore "github.com/bnema/wallet-resources/internal/adapters/cache/memory"
	redisstore "github.com/bnema/wallet-resources/internal/adapters/cache/redis"
	"github.com/bnema/wallet-resources/internal/adapters/cache/tiered"
	tomlstore "github.com/bnema/wallet-resources/internal/adapters/cache/toml"
	"github.com/bnema/wallet-resources/internal/adapters/chain/rpc"
	statusadapter "github.com/bnema/wallet-resources/internal/adapters/render/status"
	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/config"
	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/logging"
	"github.com/bnema/wallet-resources/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	config         *config.Config
	logger         *zap.Logger
	service        *application.Service
	redis          *redisstore.Store
	statusRenderer func(application.Status, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
	closers        []func() error
}

type rootOptions struct {
	viper      *viper.Viper
	configFile string
	envFile    string
}

func wireApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.viper, config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	a := &app{
		config:         cfg,
		logger:         logger,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	client := rpc.NewClient(cfg.Chain.URL, &http.Client{}, cfg.Chain.Timeout)

	chainID := domain.ChainID(cfg.Chain.ID)
	if chainID == "" {
		info, err := client.GetInfo(ctx)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("resolve chain id: %w", err)
		}
		chainID = info.ChainID
		logger.Debug("resolved chain id from node", zap.String("chain_id", string(chainID)))
	}

	store, err := a.wireAccountStore(opts.viper)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	core, err := cfg.CoreSymbol()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	tracked, err := cfg.TrackedTokens(chainID)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	clock := ports.SystemClock{}
	tokens := application.NewTokenRegistry()
	tokens.Rebuild(tracked, nil)

	deps := application.ServiceDeps{
		ChainID: chainID,
		Accounts: application.NewAccountCache(store,
			map[domain.ChainID]ports.ChainClient{chainID: client},
			clock, logger.Named("accounts"), cfg.Cache.MaxAge),
		Resources: application.NewResources(client, clock, logger.Named("resources"), application.ResourcesConfig{
			SystemContract:  domain.AccountName(cfg.Chain.SystemContract),
			SampleAccount:   domain.AccountName(cfg.Sample.Account),
			CoreSymbol:      core,
			PowerUpInterval: cfg.Poll.PowerUp,
			REXInterval:     cfg.Poll.REX,
			SampleInterval:  cfg.Poll.Sample,
		}),
		Tokens: tokens,
	}
	if cfg.Balances.Account != "" {
		deps.Balances = application.NewBalanceSync(client, tokens, chainID,
			domain.AccountName(cfg.Balances.Account), tracked,
			cfg.Poll.Balances, clock, logger.Named("balances"))
	}
	if cfg.Prices.Scope != "" {
		deps.Prices = application.NewPriceFeed(client, tokens,
			domain.AccountName(cfg.Prices.Contract), cfg.Prices.Scope, tracked[0].Key(),
			cfg.Poll.Prices, clock, logger.Named("prices"))
	}

	a.service = application.NewService(deps)
	return a, nil
}

func (a *app) wireAccountStore(v *viper.Viper) (ports.AccountStore, error) {
	cfg := a.config.Cache

	switch cfg.Backend {
	case config.BackendTOML:
		store, err := tomlstore.NewStore(v)
		if err != nil {
			return nil, fmt.Errorf("wire toml account cache: %w", err)
		}
		return store, nil
	case config.BackendMemory:
		store, err := memorystore.NewStore(cfg.LRUSize)
		if err != nil {
			return nil, fmt.Errorf("wire memory account cache: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		return a.wireRedis()
	case config.BackendTiered:
		near, err := memorystore.NewStore(cfg.LRUSize)
		if err != nil {
			return nil, fmt.Errorf("wire memory account cache: %w", err)
		}
		far, err := a.wireRedis()
		if err != nil {
			return nil, err
		}
		store, err := tiered.NewStore(near, far)
		if err != nil {
			return nil, fmt.Errorf("wire tiered account cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

func (a *app) wireRedis() (*redisstore.Store, error) {
	client, err := redisstore.ClientFromURL(a.config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("wire redis account cache: %w", err)
	}

	store := redisstore.NewStore(client, redisstore.WithTTL(a.config.Cache.RedisTTL))
	a.redis = store
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Close releases everything wireApp opened, in reverse order.
func (a *app) Close() error {
	if a == nil {
		return nil
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
