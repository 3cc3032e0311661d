package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the blockchain context backends.
	_ "github.com/mrathod05/SuiWarriors/context/db"
	_ "github.com/mrathod05/SuiWarriors/context/memory"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "warriors-cli",
	Short: "Warriors contract command line tool",
	Long: `Warriors contract command line tool for deploying the contract and
invoking its functions against an in-memory or sqlite-backed chain state.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "genesis.yaml", "genesis/config file")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
