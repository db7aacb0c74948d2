package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/younsl/ec2stop/internal/config"
	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/version"
	"github.com/younsl/ec2stop/pkg/utils"
)

var (
	outputFormat    string
	estimateSavings bool
	targetRegion    string
	homeRegion      string
	logLevel        string
	timeout         time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ec2stop",
		Short: "CLI tool to stop running EC2 instances",
		Long: `ec2stop stops every running EC2 instance, either in every enabled
region or in a single region, and displays the stopped instances
in a table format.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputTable,
		"Output format (table, json)")
	rootCmd.PersistentFlags().BoolVar(&estimateSavings, "estimate-savings", false,
		"Look up on-demand prices of stopped instances and show estimated monthly savings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (DEBUG, INFO, WARN, ERROR; default: LOG_LEVEL or INFO)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute,
		"Maximum time for the whole run")

	allRegionsCmd := &cobra.Command{
		Use:   "all-regions",
		Short: "Stop running instances in every enabled region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runAllRegions(ctx, newRunner())
		},
	}
	allRegionsCmd.Flags().StringVar(&homeRegion, "home-region", "",
		"Region used to enumerate regions (default: AWS_REGION or us-east-1)")

	regionCmd := &cobra.Command{
		Use:   "region",
		Short: "Stop running instances in a single region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runRegion(ctx, newRunner())
		},
	}
	regionCmd.Flags().StringVarP(&targetRegion, "region", "r", "",
		"Region to stop instances in (default: TARGET_REGION or us-east-1)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ec2stop version %s\n", version.Get())
		},
	}

	rootCmd.AddCommand(allRegionsCmd, regionCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunner() *runner {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = &config.Config{TargetRegion: utils.GetDefaultRegion()}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return &runner{
		cfg:    cfg,
		log:    logger.Initialize(config.LogFormatText, cfg.GetLogLevel()),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}
