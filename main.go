// HostWatch — host utilization and reachability logger with a read-only dashboard.
// Author: vesaa | License: MIT | https://github.com/vesaa/hostwatch
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vesaa/hostwatch/internal/agent"
	"github.com/vesaa/hostwatch/internal/config"
	"github.com/vesaa/hostwatch/internal/logging"
	"github.com/vesaa/hostwatch/internal/server"
	"github.com/vesaa/hostwatch/internal/store"
)

const version = "v0.1.0"

func printBanner(mode string) {
	fmt.Printf("  ► HostWatch %s  |  Mode: %s\n\n", version, mode)
}

// loadConfig reads config and applies the flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("host") {
		cfg.PingHost, _ = flags.GetString("host")
	}
	if flags.Changed("interval") {
		cfg.Interval, _ = flags.GetInt("interval")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("limit") {
		cfg.RecentLimit, _ = flags.GetInt("limit")
	}
	if flags.Changed("port") {
		cfg.ViewerPort, _ = flags.GetInt("port")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	root := &cobra.Command{
		Use:   "hostwatch",
		Short: "HostWatch — log host utilization and reachability to SQLite",
		Long: `HostWatch samples CPU, memory and disk utilization plus ICMP reachability
of a fixed target, appends each sample to the system_log table of a local
SQLite file, and serves a read-only dashboard over the history.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("db", "", "SQLite database path (overrides db_path)")

	// ── collect subcommand ────────────────────────────────────────────────────
	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Sample the host a fixed number of times, then print the latest records",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("COLLECT")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(cfg)
			defer logger.Sync()

			st := store.New(cfg.DBPath, logger)
			c := agent.NewCollector(cfg, st,
				agent.NewHostMetrics(cfg.DiskPath),
				agent.NewPingProber(cfg.PingTimeoutDuration()),
				logger)

			fmt.Printf("  ✓ Database: %s\n", cfg.DBPath)
			fmt.Printf("  ✓ Target:   %s\n", cfg.PingHost)
			fmt.Printf("  ✓ Samples:  %d every %ds\n\n", cfg.Iterations, cfg.Interval)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return c.Run(ctx)
		},
	}
	collectCmd.Flags().String("host", "", "Reachability target (overrides ping_host)")
	collectCmd.Flags().Int("interval", 0, "Seconds between samples (overrides collect_interval_seconds)")
	collectCmd.Flags().Int("iterations", 0, "Number of samples (overrides collect_iterations)")
	collectCmd.Flags().Int("limit", 0, "Records in the closing summary (overrides recent_limit)")

	// ── recent subcommand ─────────────────────────────────────────────────────
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(cfg)
			defer logger.Sync()

			st := store.New(cfg.DBPath, logger)
			err = agent.PrintRecent(cmd.Context(), os.Stdout, st, cfg.RecentLimit)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println("No records logged yet.")
				return nil
			}
			return err
		},
	}
	recentCmd.Flags().Int("limit", 0, "Number of records (overrides recent_limit)")

	// ── serve subcommand ──────────────────────────────────────────────────────
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("VIEWER")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(cfg)
			defer logger.Sync()

			st := store.New(cfg.DBPath, logger)
			if !st.Exists() {
				logger.Warn("database not found yet; dashboard will show an advisory",
					zap.String("path", cfg.DBPath))
			}

			gin.SetMode(gin.ReleaseMode)
			engine := gin.New()
			engine.Use(gin.Recovery())
			server.New(st, cfg.RecentLimit, logger).RegisterRoutes(engine)

			addr := cfg.ViewerAddr()
			fmt.Printf("  ✓ Dashboard → http://%s\n", addr)
			fmt.Printf("  ✓ Database:   %s\n\n", cfg.DBPath)

			srv := &http.Server{Addr: addr, Handler: engine}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt)

			select {
			case err := <-errCh:
				return err
			case <-quit:
				fmt.Println("\n  → Shutting down gracefully…")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	serveCmd.Flags().Int("port", 0, "Listen port (overrides viewer_port)")

	// ── version subcommand ────────────────────────────────────────────────────
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print HostWatch version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("HostWatch %s\n", version)
		},
	}

	root.AddCommand(collectCmd, recentCmd, serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
