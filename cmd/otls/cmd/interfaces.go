package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/host"
)

// scanProbes is replaced in tests.
var scanProbes host.ProbeScanner = host.ScanProbes

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List DAPLink and J-Link probes on the USB bus",
	Long: `Scan the USB bus for DAPLink and SEGGER J-Link interface chips and print
their serial numbers. This works without mounted drives and helps diagnose
boards that the default listing does not show.`,
	Args: cobra.NoArgs,
	RunE: runInterfaces,
}

func init() {
	rootCmd.AddCommand(interfacesCmd)
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	probes, err := scanProbes(ctx)
	if err != nil {
		return fmt.Errorf("scan usb: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(probes) == 0 {
		fmt.Fprintln(out, "No probes found.")
		return nil
	}

	fmt.Fprintln(out, "Detected probes:")
	for _, p := range probes {
		serial := p.Serial
		if serial == "" {
			serial = "unknown"
		}
		fmt.Fprintf(out, "  - %s [%s] (VID:PID %04X:%04X) serial %s bus %d addr %d\n",
			p.Label(), p.Kind, p.VendorID, p.ProductID, serial, p.Bus, p.Addr)
	}
	return nil
}
