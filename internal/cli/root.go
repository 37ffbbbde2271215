package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ecnspider/ecnspider/internal/config"
	"github.com/ecnspider/ecnspider/internal/ecnctl"
	"github.com/ecnspider/ecnspider/internal/engine"
	"github.com/ecnspider/ecnspider/internal/logging"
	"github.com/ecnspider/ecnspider/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "ecnspider",
	Short: "ecnspider probes domains for broken ECN handling",
}

// run command flags.
var (
	flagVerbosity      string
	flagWorkers        int
	flagTimeoutSecs    int
	flagQueueSize      int
	flagSaveHeaders    bool
	flagNoIPv6         bool
	flagDebugCount     int
	flagFastFail       bool
	flagNoTcpdumpCheck bool
	flagMetricsAddr    string
	flagConfigPath     string
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run <input.csv> <retry_output.csv> <output.csv> <logfile>",
		Short: "Crawl the domains in input.csv, toggling ECN each half-cycle",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.InputPath = args[0]
			cfg.RetryPath = args[1]
			cfg.OutputPath = args[2]
			cfg.LogPath = args[3]
			cfg.Verbosity = flagVerbosity
			cfg.Workers = flagWorkers
			cfg.Timeout = time.Duration(flagTimeoutSecs) * time.Second
			cfg.QueueSize = flagQueueSize
			cfg.SaveHeaders = flagSaveHeaders
			cfg.NoIPv6 = flagNoIPv6
			cfg.DebugCount = flagDebugCount
			cfg.FastFail = flagFastFail
			cfg.NoTcpdumpCheck = flagNoTcpdumpCheck
			cfg.MetricsAddr = flagMetricsAddr

			if flagConfigPath != "" {
				flagsSet := map[string]bool{}
				cmd.Flags().Visit(func(f *pflag.Flag) { flagsSet[f.Name] = true })
				if err := config.LoadYAMLOverlay(&cfg, flagConfigPath, flagsSet); err != nil {
					return err
				}
			}

			return runCrawl(cfg)
		},
	}

	runCmd.Flags().StringVar(&flagVerbosity, "verbosity", "INFO", "Log verbosity: CRITICAL, ERROR, WARNING, INFO, DEBUG")
	runCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 5, "Number of concurrent probe workers")
	runCmd.Flags().IntVarP(&flagTimeoutSecs, "timeout", "t", 10, "Per-probe connect/request timeout, in seconds")
	runCmd.Flags().IntVar(&flagQueueSize, "queue-size", 100, "Job queue capacity")
	runCmd.Flags().BoolVar(&flagSaveHeaders, "save-headers", false, "Record raw response headers in the output CSV")
	runCmd.Flags().BoolVar(&flagNoIPv6, "no-ipv6", false, "Skip IPv6 addresses entirely")
	runCmd.Flags().IntVar(&flagDebugCount, "debug-count", 0, "Stop reading input after this many rows (0 = unbounded)")
	runCmd.Flags().BoolVar(&flagFastFail, "fast-fail", false, "Skip the ECN-on connect attempt when the ECN-off connect timed out")
	runCmd.Flags().BoolVar(&flagNoTcpdumpCheck, "no-tcpdump-check", false, "Skip the startup check for a running packet-capture process")
	runCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090); empty disables it")
	runCmd.Flags().StringVar(&flagConfigPath, "config", "", "Optional YAML config overlay; flags set on the command line always win")

	wizardCmd := &cobra.Command{
		Use:   "wizard",
		Short: "Interactively configure and start a crawl",
		RunE: func(cmd *cobra.Command, args []string) error {
			wcfg, err := ui.RunInteractiveWizard()
			if err != nil {
				return err
			}
			cfg := config.Default()
			cfg.InputPath = wcfg.InputPath
			cfg.RetryPath = wcfg.RetryPath
			cfg.OutputPath = wcfg.OutputPath
			cfg.LogPath = wcfg.LogPath
			cfg.Workers = wcfg.Workers
			cfg.Timeout = wcfg.Timeout
			cfg.Verbosity = wcfg.Verbosity
			cfg.SaveHeaders = wcfg.SaveHeaders
			cfg.NoIPv6 = wcfg.NoIPv6
			cfg.FastFail = wcfg.FastFail

			return runCrawl(cfg)
		},
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(wizardCmd)
}

// Execute runs the root cobra command, printing any fatal error (including
// a kernel ECN capability failure, wrapping engine.ErrKernelCapability) and
// exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCrawl validates cfg, wires up the logger and kernel controller, and
// drives one full orchestrator run.
func runCrawl(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening logfile: %w", err)
	}
	defer logFile.Close()

	log, err := logging.New(logFile, cfg.Verbosity)
	if err != nil {
		return err
	}

	kernel := ecnctl.NewSysctlController()
	orch := engine.NewOrchestrator(cfg, kernel, log)

	return orch.Run(context.Background())
}
