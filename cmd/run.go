/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"feedriver/domain"
	"feedriver/domain/util"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the pipeline once",
	Long: `Runs the claim, forward and distribute pipeline once. Exits with 0 when the
run completes or is skipped, and with 1 on any fatal error.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer closeDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		report, err := pipelineInteractor.Run(ctx)
		printOutReport(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Run failed - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}
	},
}

func printOutReport(report *domain.RunReport) {
	if report == nil {
		return
	}

	switch report.Outcome {
	case domain.OutcomeSkip:
		fmt.Printf("🔵 Run %v skipped at %v: %v\n", report.ID, report.Stage, report.SkipReason)
	case domain.OutcomeFatal:
		fmt.Printf("🔴 Run %v failed at %v\n", report.ID, report.Stage)
	default:
		fmt.Printf("🟢 Run %v completed\n", report.ID)
	}

	if report.PendingFees != nil {
		fmt.Printf("   pending     : %v\n", util.LamportsToSolString(report.PendingFees))
	}
	if report.Collected != nil {
		fmt.Printf("   collected   : %v\n", util.LamportsToSolString(report.Collected))
	}
	if report.Forwarded != nil {
		fmt.Printf("   forwarded   : %v\n", util.LamportsToSolString(report.Forwarded))
	}
	if report.Distributed != nil {
		fmt.Printf("   distributed : %v to %v holders (%v each)\n",
			util.LamportsToSolString(report.Distributed), report.HolderCount, util.LamportsString(report.PerHolderShare))
	}
	for _, stage := range []domain.Stage{domain.StageClaim, domain.StageNormalize, domain.StageForward, domain.StageDistribute} {
		if signature, exist := report.Signatures[stage]; exist {
			fmt.Printf("   %-11v : %v\n", stage, signature)
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
