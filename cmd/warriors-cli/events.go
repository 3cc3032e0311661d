package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrathod05/SuiWarriors/context"
	"github.com/mrathod05/SuiWarriors/context/db"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List contract events from the db backend",
	Long: `List the events the warriors contract has emitted, oldest first.
Only the db backend persists events across runs.
Example: warriors-cli events -c genesis.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Context != string(context.DBContextType) {
			return fmt.Errorf("events requires the db context, config uses %q", cfg.Context)
		}

		ctx, err := context.Get(context.DBContextType, cfg.EngineConfig().ContextParams)
		if err != nil {
			return err
		}
		dbCtx, ok := ctx.(*db.Context)
		if !ok {
			return fmt.Errorf("unexpected context implementation %T", ctx)
		}

		events, err := dbCtx.Events(cfg.ContractAddress())
		if err != nil {
			return err
		}

		for _, event := range events {
			var keyValues []any
			if err := json.Unmarshal(event.KeyValues, &keyValues); err != nil {
				keyValues = []any{string(event.KeyValues)}
			}
			fmt.Printf("block=%d tx=%s %s %v\n", event.BlockHeight, event.TxHash, event.EventName, keyValues)
		}
		return nil
	},
}
