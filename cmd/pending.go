/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"feedriver/domain"
	"feedriver/domain/util"

	"github.com/spf13/cobra"
)

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Shows the creator fees waiting to be claimed",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer closeDependencies()

		creator := domain.GetCreatorKey().PublicKey()
		pending, err := feeInteractor.Pending(context.Background(), creator)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Failed to read pending fees - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}

		fmt.Printf("------------- PENDING CREATOR FEES -----------------\n")
		fmt.Printf("creator: %v\n", creator)
		for _, venue := range pending.Venues {
			fmt.Printf("  %-14v %v\n", venue.Venue, util.LamportsToSolString(venue.Amount))
		}
		fmt.Printf("  %-14v %v\n", "total", util.LamportsToSolString(pending.Total()))

		threshold := domain.GetRewardThreshold()
		if threshold.Sign() > 0 && pending.Total().Cmp(threshold) < 0 {
			fmt.Printf("🔵 below the claim threshold of %v\n", util.LamportsToSolString(threshold))
		}
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
