/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"feedriver/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// holdersCmd represents the holders command
var holdersCmd = &cobra.Command{
	Use:   "holders",
	Short: "Lists the holders a distribution would pay",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer closeDependencies()

		holders, err := holderInteractor.TopHolders(context.Background(), domain.GetTokenMint(), domain.GetHolderCount())
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Failed to aggregate holders - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}

		printOutHolders(holders)
	},
}

func printOutHolders(holders []domain.Holder) {
	fmt.Printf("------------- ELIGIBLE HOLDER LIST -----------------\n")
	if len(holders) == 0 {
		fmt.Printf("🔵 no eligible holders\n")
		return
	}
	for i, holder := range holders {
		fmt.Printf("#%03d - %v  %v\n", i+1, holder.Address, humanize.BigComma(holder.Balance))
	}
}

func init() {
	rootCmd.AddCommand(holdersCmd)
}
