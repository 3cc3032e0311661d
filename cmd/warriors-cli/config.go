package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/vm"
)

// GenesisConfig describes the chain state the CLI runs against.
type GenesisConfig struct {
	// Context is the backend type: "memory" or "db".
	Context string `yaml:"context"`
	// DBPath is the sqlite file for the db backend.
	DBPath string `yaml:"db_path"`
	// Contract is the hex address the warriors contract is deployed at.
	Contract string `yaml:"contract"`
	// Deployer is the hex address that deploys and initializes.
	Deployer string `yaml:"deployer"`

	Block struct {
		Height uint64 `yaml:"height"`
		Time   int64  `yaml:"time"`
		Hash   string `yaml:"hash"`
	} `yaml:"block"`

	Accounts []struct {
		Address string `yaml:"address"`
		Balance uint64 `yaml:"balance"`
	} `yaml:"accounts"`
}

// LoadConfig reads and validates the yaml config file.
func LoadConfig(path string) (*GenesisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg GenesisConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Context == "" {
		cfg.Context = "memory"
	}
	if cfg.Contract == "" {
		return nil, fmt.Errorf("config is missing the contract address")
	}
	if cfg.Deployer == "" {
		return nil, fmt.Errorf("config is missing the deployer address")
	}
	return &cfg, nil
}

// ContractAddress returns the parsed contract address.
func (cfg *GenesisConfig) ContractAddress() core.Address {
	return core.AddressFromString(cfg.Contract)
}

// DeployerAddress returns the parsed deployer address.
func (cfg *GenesisConfig) DeployerAddress() core.Address {
	return core.AddressFromString(cfg.Deployer)
}

// EngineConfig translates the genesis config into a vm.Config.
func (cfg *GenesisConfig) EngineConfig() *vm.Config {
	params := map[string]any{}
	if cfg.DBPath != "" {
		params["db_path"] = cfg.DBPath
	}
	return &vm.Config{
		ContextType:   cfg.Context,
		ContextParams: params,
	}
}

// balanceSetter is implemented by both context backends for genesis seeding.
type balanceSetter interface {
	SetBalance(addr core.Address, amount uint64) error
}

// newEngine builds an engine from the config and applies block info and
// genesis balances to its context.
func newEngine(cfg *GenesisConfig) (*vm.Engine, error) {
	engine, err := vm.NewEngine(cfg.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create VM engine: %w", err)
	}

	ctx := engine.GetContext()
	if err := ctx.SetBlockInfo(cfg.Block.Height, cfg.Block.Time, core.HashFromString(cfg.Block.Hash)); err != nil {
		return nil, fmt.Errorf("failed to set block info: %w", err)
	}

	if setter, ok := ctx.(balanceSetter); ok {
		for _, account := range cfg.Accounts {
			addr := core.AddressFromString(account.Address)
			if ctx.Balance(addr) != 0 {
				continue
			}
			if err := setter.SetBalance(addr, account.Balance); err != nil {
				return nil, fmt.Errorf("failed to seed balance for %s: %w", account.Address, err)
			}
		}
	}

	return engine, nil
}
