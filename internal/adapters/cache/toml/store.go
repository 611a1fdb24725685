package toml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	cachePathKey    = "cache.path"
	cacheFileMode   = 0o600
	cacheDirMode    = 0o700
	cacheDirName    = "wr"
	cacheFileName   = "accounts.toml"
	tempFilePattern = ".accounts-*.toml.tmp"
)

// Store keeps account records in a single TOML file. Writes replace the
// file atomically.
type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AccountStore = (*Store)(nil)

func DefaultPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}

	return filepath.Join(cacheDir, cacheDirName, cacheFileName), nil
}

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(cachePathKey)
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.AccountRecord{}, err
	}

	for _, entry := range file.Records {
		if entry.Key == key {
			return fromSchema(entry)
		}
	}

	return domain.AccountRecord{}, domain.ErrAccountNotFound
}

func (s *Store) Put(ctx context.Context, key string, record domain.AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(key, record)
	updated := false
	for i := range file.Records {
		if file.Records[i].Key == key {
			file.Records[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Records = append(file.Records, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read cache file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode cache file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), cacheDirMode); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode cache file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}

	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp cache file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve cache path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(key string, record domain.AccountRecord) recordSchema {
	account := record.Account

	return recordSchema{
		Key:     key,
		Updated: record.Updated.UTC().Format(time.RFC3339Nano),
		Account: accountSchema{
			Name:              string(account.Name),
			CoreLiquidBalance: account.CoreLiquidBalance.String(),
			RAMQuota:          account.RAMQuota,
			RAMUsage:          account.RAMUsage,
			CPUWeight:         account.CPUWeight,
			NetWeight:         account.NetWeight,
			CPULimit:          toLimitSchema(account.CPULimit),
			NetLimit:          toLimitSchema(account.NetLimit),
			Raw:               string(account.Raw),
		},
	}
}

func fromSchema(entry recordSchema) (domain.AccountRecord, error) {
	var updated time.Time
	if entry.Updated != "" {
		parsed, err := time.Parse(time.RFC3339Nano, entry.Updated)
		if err != nil {
			return domain.AccountRecord{}, fmt.Errorf("decode cache record %s: %w", entry.Key, err)
		}
		updated = parsed
	}

	account := domain.Account{
		Name:      domain.AccountName(entry.Account.Name),
		RAMQuota:  entry.Account.RAMQuota,
		RAMUsage:  entry.Account.RAMUsage,
		CPUWeight: entry.Account.CPUWeight,
		NetWeight: entry.Account.NetWeight,
		CPULimit:  fromLimitSchema(entry.Account.CPULimit),
		NetLimit:  fromLimitSchema(entry.Account.NetLimit),
	}
	if entry.Account.CoreLiquidBalance != "" {
		balance, err := domain.ParseAsset(entry.Account.CoreLiquidBalance)
		if err != nil {
			return domain.AccountRecord{}, fmt.Errorf("decode cache record %s: %w", entry.Key, err)
		}
		account.CoreLiquidBalance = balance
	}
	if entry.Account.Raw != "" {
		account.Raw = json.RawMessage(entry.Account.Raw)
	}

	return domain.AccountRecord{Account: account, Updated: updated}, nil
}

func toLimitSchema(limit domain.ResourceLimit) limitSchema {
	return limitSchema{Used: limit.Used, Available: limit.Available, Max: limit.Max}
}

func fromLimitSchema(limit limitSchema) domain.ResourceLimit {
	return domain.ResourceLimit{Used: limit.Used, Available: limit.Available, Max: limit.Max}
}
