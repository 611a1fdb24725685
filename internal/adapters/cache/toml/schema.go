package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Records []recordSchema `toml:"records"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported cache schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type recordSchema struct {
	Key     string        `toml:"key"`
	Updated string        `toml:"updated"`
	Account accountSchema `toml:"account"`
}

type accountSchema struct {
	Name              string      `toml:"name"`
	CoreLiquidBalance string      `toml:"core_liquid_balance,omitempty"`
	RAMQuota          int64       `toml:"ram_quota"`
	RAMUsage          int64       `toml:"ram_usage"`
	CPUWeight         int64       `toml:"cpu_weight"`
	NetWeight         int64       `toml:"net_weight"`
	CPULimit          limitSchema `toml:"cpu_limit"`
	NetLimit          limitSchema `toml:"net_limit"`
	Raw               string      `toml:"raw,omitempty"`
}

type limitSchema struct {
	Used      int64 `toml:"used"`
	Available int64 `toml:"available"`
	Max       int64 `toml:"max"`
}
