package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "WR"
	configName     = "config"
	configType     = "toml"
	configDirName  = "wr"
	defaultEnvFile = ".env"
)

var (
	ErrMissingChainURL = errors.New("chain.url is required")
	ErrUnknownBackend  = errors.New("unknown cache backend")
)

type Backend string

const (
	BackendTOML   Backend = "toml"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
	BackendTiered Backend = "tiered"
)

type Config struct {
	Chain    ChainConfig    `mapstructure:"chain"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Poll     PollConfig     `mapstructure:"poll"`
	Sample   SampleConfig   `mapstructure:"sample"`
	Prices   PricesConfig   `mapstructure:"prices"`
	Balances BalancesConfig `mapstructure:"balances"`
	Tokens   []TokenConfig  `mapstructure:"tokens"`
	Log      LogConfig      `mapstructure:"log"`
	Serve    ServeConfig    `mapstructure:"serve"`
}

type ChainConfig struct {
	URL            string        `mapstructure:"url"`
	ID             string        `mapstructure:"id"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CoreSymbol     string        `mapstructure:"core_symbol"`
	SystemContract string        `mapstructure:"system_contract"`
	TokenContract  string        `mapstructure:"token_contract"`
}

type CacheConfig struct {
	Backend  Backend       `mapstructure:"backend"`
	Path     string        `mapstructure:"path"`
	RedisURL string        `mapstructure:"redis_url"`
	RedisTTL time.Duration `mapstructure:"redis_ttl"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	LRUSize  int           `mapstructure:"lru_size"`
}

type PollConfig struct {
	PowerUp  time.Duration `mapstructure:"powerup"`
	REX      time.Duration `mapstructure:"rex"`
	Sample   time.Duration `mapstructure:"sample"`
	Balances time.Duration `mapstructure:"balances"`
	Prices   time.Duration `mapstructure:"prices"`
}

type SampleConfig struct {
	Account string `mapstructure:"account"`
}

type PricesConfig struct {
	Contract string `mapstructure:"contract"`
	Scope    string `mapstructure:"scope"`
}

type BalancesConfig struct {
	Account string `mapstructure:"account"`
}

// TokenConfig declares a tracked token. Symbol uses the "4,EOS" form.
type TokenConfig struct {
	Contract string `mapstructure:"contract"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Logo     string `mapstructure:"logo"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoadOptions struct {
	// ConfigFile overrides the config file search.
	ConfigFile string
	// EnvFile is loaded into the process environment when present.
	EnvFile string
}

func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, configDirName), nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("chain.url", "")
	v.SetDefault("chain.id", "")
	v.SetDefault("chain.timeout", 10*time.Second)
	v.SetDefault("chain.core_symbol", "4,EOS")
	v.SetDefault("chain.system_contract", "eosio")
	v.SetDefault("chain.token_contract", "eosio.token")

	v.SetDefault("cache.backend", string(BackendTOML))
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.redis_ttl", time.Duration(0))
	v.SetDefault("cache.max_age", domain.DefaultAccountMaxAge)
	v.SetDefault("cache.lru_size", 1024)

	v.SetDefault("poll.powerup", 30*time.Second)
	v.SetDefault("poll.rex", 30*time.Second)
	v.SetDefault("poll.sample", time.Second)
	v.SetDefault("poll.balances", 15*time.Minute)
	v.SetDefault("poll.prices", 30*time.Second)

	v.SetDefault("sample.account", "")
	v.SetDefault("prices.contract", "delphioracle")
	v.SetDefault("prices.scope", "")
	v.SetDefault("balances.account", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("serve.addr", ":8080")
}

// Load resolves configuration from defaults, an optional TOML file, an
// optional .env file and WR_* environment variables, in increasing order
// of precedence. Keys already set on v (flags) win over all of them.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	SetDefaults(v)

	v.SetConfigType(configType)
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		if dir, err := DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Chain.URL) == "" {
		return ErrMissingChainURL
	}
	switch c.Cache.Backend {
	case BackendTOML, BackendRedis, BackendMemory, BackendTiered:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
	if (c.Cache.Backend == BackendRedis || c.Cache.Backend == BackendTiered) && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required for the %s backend", c.Cache.Backend)
	}
	if _, err := c.CoreSymbol(); err != nil {
		return err
	}
	for _, token := range c.Tokens {
		if _, err := domain.ParseSymbol(token.Symbol); err != nil {
			return fmt.Errorf("token %s: %w", token.Contract, err)
		}
	}
	return nil
}

func (c *Config) CoreSymbol() (domain.Symbol, error) {
	symbol, err := domain.ParseSymbol(c.Chain.CoreSymbol)
	if err != nil {
		return domain.Symbol{}, fmt.Errorf("chain.core_symbol: %w", err)
	}
	return symbol, nil
}

// TrackedTokens returns the configured tokens, always including the core
// token of the chain first.
func (c *Config) TrackedTokens(chainID domain.ChainID) ([]domain.TokenMetadata, error) {
	core, err := c.CoreSymbol()
	if err != nil {
		return nil, err
	}

	coreMeta := domain.TokenMetadata{
		ChainID:  chainID,
		Contract: domain.AccountName(strings.TrimSpace(c.Chain.TokenContract)),
		Symbol:   core,
		Name:     core.Code,
	}
	tokens := []domain.TokenMetadata{coreMeta}

	for _, token := range c.Tokens {
		symbol, err := domain.ParseSymbol(token.Symbol)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", token.Contract, err)
		}
		meta := domain.TokenMetadata{
			ChainID:  chainID,
			Contract: domain.AccountName(strings.TrimSpace(token.Contract)),
			Symbol:   symbol,
			Name:     token.Name,
			Logo:     token.Logo,
		}
		if meta.Name == "" {
			meta.Name = symbol.Code
		}
		if meta.Key() == coreMeta.Key() {
			tokens[0] = meta
			continue
		}
		tokens = append(tokens, meta)
	}

	return tokens, nil
}
