/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"feedriver/domain"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the periodic pipeline",
	Long:  `Runs the pipeline every run_interval until SIGINT or SIGTERM is received.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("start called.")

		defaultDependencyInject()
		defer closeDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var metricsServer *http.Server
		if addr := domain.GetMetricsAddr(); addr != "" {
			metricsServer = serveMetrics(addr)
		}

		done := schedule(ctx, clockwork.NewRealClock(), domain.GetRunInterval(), runPipeline)

		<-ctx.Done()
		log.Printf("Got signal, stopping")
		<-done

		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}
	},
}

// schedule calls task every interval until ctx is done. The ticker is paused
// while the task runs, so a slow run delays the next one instead of
// overlapping it.
func schedule(ctx context.Context, clock clockwork.Clock, interval time.Duration, task func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	ticker := clock.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {

			case <-ticker.Chan():
				ticker.Stop()
				task(ctx)
				ticker.Reset(interval)

			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}

func runPipeline(ctx context.Context) {
	report, err := pipelineInteractor.Run(ctx)
	printOutReport(report)
	if err != nil {
		fmt.Printf("❌ Run failed - %v\n", err.Error())
	}
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		appLogger.Info("metrics: listening", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("metrics: server stopped", "error", err)
		}
	}()
	return server
}

func init() {
	rootCmd.AddCommand(startCmd)
}
