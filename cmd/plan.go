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

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Shows what a run would do without submitting anything",
	Long: `Reads the pending creator fees, the eligible holders and the current vault
balance, and prints the split a distribution would make right now. Fees that
are still pending are not part of the vault balance yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer closeDependencies()

		report, err := pipelineInteractor.DryRun(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Dry run failed - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}

		fmt.Printf("------------- DRY RUN -----------------\n")
		fmt.Printf("pending fees : %v\n", util.LamportsToSolString(report.Pending.Total()))
		fmt.Printf("vault        : %v\n", report.Vault)
		printOutHolders(report.Holders)

		if plan := report.Plan; plan != nil {
			fmt.Printf("vault balance  : %v\n", util.LamportsToSolString(plan.VaultBalance))
			fmt.Printf("rent exempt    : %v\n", util.LamportsString(plan.RentExempt))
			fmt.Printf("distributable  : %v\n", util.LamportsToSolString(plan.Distributable))
			fmt.Printf("per holder     : %v\n", util.LamportsString(plan.PerHolderShare))
			fmt.Printf("kept in vault  : %v\n", util.LamportsString(plan.Remainder))
		}

		if report.Outcome.Kind == domain.OutcomeSkip {
			fmt.Printf("🔵 a run now would skip: %v\n", report.Outcome.Reason)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
