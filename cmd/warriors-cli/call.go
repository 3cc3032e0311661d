package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/warriors"
)

var (
	callSender   string
	callFunction string
	callArgs     string
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Call a warriors contract function",
	Long: `Call a function on the deployed warriors contract. Arguments are
passed as a JSON object matching the function's parameter struct.
Example: warriors-cli call -s 0x1122... -f MintWarrior -a '{"name":"Conan"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if callSender == "" {
			return fmt.Errorf("sender address is required")
		}
		if callFunction == "" {
			return fmt.Errorf("function name is required")
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		// Attach handlers without re-running initialization; the contract
		// state already lives in the backing context.
		if err := engine.Register(cfg.ContractAddress(), warriors.Contract()); err != nil {
			return err
		}

		ctx := engine.GetContext()
		// Each invocation is a distinct transaction, even with identical
		// arguments; a repeated hash would replay the previous object IDs.
		txHash := core.GetHash([]byte(fmt.Sprintf("call:%s:%s:%s:%d", callSender, callFunction, callArgs, time.Now().UnixNano())))
		if err := ctx.SetTransactionInfo(txHash, core.AddressFromString(callSender), cfg.ContractAddress(), 0); err != nil {
			return fmt.Errorf("failed to set transaction info: %w", err)
		}

		var params []byte
		if callArgs != "" {
			params = []byte(callArgs)
		}

		result, err := engine.Execute(cfg.ContractAddress(), callFunction, params)
		if err != nil {
			return fmt.Errorf("failed to execute contract: %w", err)
		}

		if result != nil {
			resultJSON, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Printf("Execution result:\n%s\n", string(resultJSON))
		} else {
			fmt.Println("Function executed successfully with no return value")
		}
		return nil
	},
}

func init() {
	callCmd.Flags().StringVarP(&callSender, "sender", "s", "", "sender address (hex)")
	callCmd.Flags().StringVarP(&callFunction, "function", "f", "", "function name, e.g. MintWarrior or mint_warrior")
	callCmd.Flags().StringVarP(&callArgs, "args", "a", "", "JSON-encoded arguments")
}
