package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/devdao-labs/devdao-node/engine/config"
	"github.com/devdao-labs/devdao-node/engine/core"
	"github.com/devdao-labs/devdao-node/engine/db"
	"github.com/devdao-labs/devdao-node/engine/external"
	"github.com/devdao-labs/devdao-node/engine/logger"
	"github.com/devdao-labs/devdao-node/engine/metrics"
	"github.com/devdao-labs/devdao-node/engine/query"
)

const (
	appName = "devdaod"
	version = "0.1.0"
)

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("home", ".", "node home directory")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(versionCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration into the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString("home")
			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if err := config.Save(cfg, home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote default config under %s/config\n", home)
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the DevDAO engine and query server",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString("home")
			cfg, err := config.Load(home)
			if err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			var database *db.DB
			if cfg.EphemeralState {
				database, err = db.OpenInMemory()
			} else {
				database, err = db.OpenFile(cfg.DataDir, db.DefaultFileName)
			}
			if err != nil {
				return err
			}
			defer database.Close()

			registry := prometheus.NewRegistry()
			m := metrics.New(registry)

			// Local deployments run with in-process external handles;
			// production substitutes RPC-backed implementations.
			deps := core.Deps{
				Staking:              external.NewStaticLedger(nil),
				Distributor:          external.NewRecordingDistributor(),
				Yield:                external.StaticYieldSource{},
				ContributionVerifier: external.AcceptAllVerifier{},
				CompletionVerifier:   external.AcceptAllVerifier{},
				Clock:                external.SystemClock{},
			}

			engine, err := core.New(database, cfg, deps, log, m)
			if err != nil {
				return err
			}

			server := query.NewServer(engine, registry, logger.Component(log, "query"), cfg.QueryServerPort)
			if err := server.Start(); err != nil {
				return err
			}
			defer server.Stop()

			log.Info().
				Int("query_port", cfg.QueryServerPort).
				Str("admin", cfg.Admin).
				Msg("devdao engine started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info().Msg("shutting down")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print devdaod version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Name:    %s\n", appName)
			fmt.Printf("Version: %s\n", version)
		},
	}
}
