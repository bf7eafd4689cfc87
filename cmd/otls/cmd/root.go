package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLS/internal/config"
	"github.com/OpenTraceLab/OpenTraceLS/internal/logger"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/lstool"
)

var (
	// Global flags
	debug        bool
	skipRetarget bool
	usbScan      bool
	lockTimeout  time.Duration

	// Listing flags, shared by the root and platforms commands
	fsBehavior    string
	listUnmounted bool
	readDetails   bool
	targetFilters []string

	// Output flags
	outputJSON     bool
	jsonByTargetID bool
	simple         bool

	// providerOverride replaces host detection in tests.
	providerOverride device.Provider
)

var rootCmd = &cobra.Command{
	Use:   "otls",
	Short: "List development boards attached to this host",
	Long: `Detect mbed enabled (DAPLink) and SEGGER J-Link boards connected over USB,
identify their platform from the target ID, and report mount points and serial ports.

Examples:
  otls                                   # Table of attached boards
  otls --json --details                  # JSON including details.txt fields
  otls --fs never --filter ^0240         # USB data only, K64F boards
  otls mock +1234:MY_BOARD               # Map target ID prefix 1234 locally
  otls platforms --counts                # Number of attached boards per platform`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runList,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "otls:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&debug, "debug", "d", false, "log debug output to stderr")
	pf.BoolVar(&skipRetarget, "skip-retarget", false, "ignore the mbedls.json retarget file")
	pf.BoolVar(&usbScan, "usb-scan", false, "also report boards seen on the USB bus without a drive")
	pf.DurationVar(&lockTimeout, "lock-timeout", config.DefaultLockTTL, "how long to wait for a mock file lock")

	addListFlags(rootCmd)
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "print records as a JSON list")
	rootCmd.Flags().BoolVar(&jsonByTargetID, "json-by-target-id", false, "print records as a JSON object keyed by target ID")
	rootCmd.Flags().BoolVarP(&simple, "simple", "s", false, "print the table without borders or header")
}

func addListFlags(c *cobra.Command) {
	c.Flags().StringVar(&fsBehavior, "fs", device.FSBeforeFilter.String(), "when to read board drives: before, after (the filter) or never")
	c.Flags().BoolVarP(&listUnmounted, "unmounted", "u", false, "keep boards whose drive is missing")
	c.Flags().BoolVar(&readDetails, "details", false, "parse DAPLink details.txt into extra fields")
	c.Flags().StringArrayVarP(&targetFilters, "filter", "f", nil, "keep boards whose target ID matches this regex (repeatable)")
}

func loadConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SkipRetarget = skipRetarget
	cfg.USBScan = usbScan
	cfg.LockTimeout = lockTimeout
	cfg.Log.Debug = debug
	return cfg
}

func newTool(ctx context.Context) (*lstool.Tool, error) {
	cfg := loadConfig()
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	opts := []lstool.Option{lstool.WithLogger(logger.WithComponent("otls"))}
	if providerOverride != nil {
		opts = append(opts, lstool.WithProvider(providerOverride))
	}
	return lstool.New(ctx, cfg, opts...)
}

func listOptions() (device.ListOptions, error) {
	fs, err := device.ParseFSBehavior(fsBehavior)
	if err != nil {
		return device.ListOptions{}, err
	}
	filter, err := device.CompileTargetIDFilter(targetFilters)
	if err != nil {
		return device.ListOptions{}, err
	}
	return device.ListOptions{
		FS:            fs,
		Filter:        filter,
		ListUnmounted: listUnmounted,
		ReadDetails:   readDetails,
	}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	opts, err := listOptions()
	if err != nil {
		return err
	}
	tool, err := newTool(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonByTargetID:
		byID, err := tool.ListByTargetID(opts)
		if err != nil {
			return err
		}
		return writeJSON(out, byID)
	default:
		records, err := tool.List(opts)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(out, records)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No boards found.")
			return nil
		}
		fmt.Fprintln(out, renderRecords(records, simple))
		return nil
	}
}
