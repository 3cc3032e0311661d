package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/warriors"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Deploy and initialize the warriors contract",
	Long: `Deploy the warriors contract at the configured address and run its
one-time initialization, creating the shared Forge.
Example: warriors-cli init -c genesis.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		ctx := engine.GetContext()
		txHash := core.GetHash([]byte("deploy:" + cfg.Contract))
		if err := ctx.SetTransactionInfo(txHash, cfg.DeployerAddress(), cfg.ContractAddress(), 0); err != nil {
			return fmt.Errorf("failed to set transaction info: %w", err)
		}

		slog.Info("deploying warriors contract",
			"contract", cfg.Contract,
			"deployer", cfg.Deployer,
			"context", cfg.Context)

		result, err := engine.Deploy(cfg.ContractAddress(), warriors.Contract(), nil)
		if err != nil {
			return fmt.Errorf("failed to deploy contract: %w", err)
		}

		fmt.Printf("Contract deployed at %s\nForge object: %v\n", cfg.Contract, result)
		return nil
	},
}
