/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"feedriver/domain"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feedriver",
	Short: "Claims creator fees and distributes them to the top token holders",
	Long: `feedriver claims the creator fees of a launch-platform token, forwards them
into the distribution vault and splits the vault equally among the token's
largest independent holders.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		domain.ReadConfig(cfgFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
