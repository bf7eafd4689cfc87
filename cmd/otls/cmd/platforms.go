package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	platformsJSON     bool
	platformsDetected bool
	platformsCounts   bool
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Show known target ID prefixes or attached platforms",
	Long: `Without flags, print every target ID prefix → platform mapping in effect,
built-in entries and mocks included.

With --detected, print the distinct platforms of the attached boards; with
--counts, print how many boards of each platform are attached.`,
	Args: cobra.NoArgs,
	RunE: runPlatforms,
}

func init() {
	platformsCmd.Flags().BoolVar(&platformsJSON, "json", false, "print as JSON")
	platformsCmd.Flags().BoolVar(&platformsDetected, "detected", false, "list platforms of attached boards")
	platformsCmd.Flags().BoolVar(&platformsCounts, "counts", false, "count attached boards per platform")
	platformsCmd.MarkFlagsMutuallyExclusive("detected", "counts")
	addListFlags(platformsCmd)
	rootCmd.AddCommand(platformsCmd)
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	tool, err := newTool(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !platformsDetected && !platformsCounts {
		all := tool.Platforms()
		if platformsJSON {
			return writeJSON(out, all)
		}
		fmt.Fprintln(out, renderMapping("target_id_prefix", "platform_name", all, false))
		return nil
	}

	opts, err := listOptions()
	if err != nil {
		return err
	}

	if platformsDetected {
		names, err := tool.DetectedPlatforms(opts)
		if err != nil {
			return err
		}
		if platformsJSON {
			if names == nil {
				names = []string{}
			}
			return writeJSON(out, names)
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	counts, err := tool.PlatformCounts(opts)
	if err != nil {
		return err
	}
	if platformsJSON {
		return writeJSON(out, counts)
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	fmt.Fprintln(out, renderTable([]string{"platform_name", "count"}, rows, false))
	return nil
}
