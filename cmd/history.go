/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"feedriver/domain"
	"feedriver/domain/util"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists the most recent journaled runs",
	Run: func(cmd *cobra.Command, args []string) {
		if !domain.IsJournalEnabled() {
			fmt.Fprintf(os.Stderr, "⛔️ service_db_uri is not configured, there is no run journal\n")
			os.Exit(1)
		}

		defaultDependencyInject()
		defer closeDependencies()

		last, err := memoInteractor.GetLastRun()
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Failed to read last run - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}
		if last != nil {
			fmt.Printf("Last run %v finished %v\n", last.ID, humanize.Time(last.FinishTime))
		}

		runs, err := runRepository.FindRecent(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⛔️ Failed to read runs - %v\n", err.Error())
			closeDependencies()
			os.Exit(1)
		}

		fmt.Printf("------------- RECENT RUNS -----------------\n")
		for _, run := range runs {
			status := string(run.Outcome)
			if run.SkipReason != "" {
				status = fmt.Sprintf("%v(%v)", run.Outcome, run.SkipReason)
			}
			fmt.Printf("%v  %-28v %-18v forwarded %v  distributed %v\n",
				run.StartTime.Format("2006-01-02 15:04:05"), status, run.Stage,
				util.LamportsToSolString(run.Forwarded), util.LamportsToSolString(run.Distributed))
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
}
