package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/mock"
)

var (
	mockGlobal bool
	mockJSON   bool
)

var mockCmd = &cobra.Command{
	Use:   "mock [EXPR]",
	Short: "Map target ID prefixes to platform names",
	Long: `Add or remove mocked platforms. Mocks live in .mbedls-mock in the working
directory, or with --global in ~/.mbed-ls/.mbedls-mock ($OTLS_HOME overrides the
directory). Local mocks win over global ones.

Expressions are comma separated:
  1234:MY_BOARD, +1234:MY_BOARD   map prefix 1234 to MY_BOARD
  -1234, !1234                    remove prefix 1234
  -*                              remove every mock of the scope

Put -- before an expression that starts with '-' so it is not read as a flag:
  otls mock -- -*

Without an expression the effective mocks of both scopes are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMock,
}

func init() {
	mockCmd.Flags().BoolVarP(&mockGlobal, "global", "g", false, "edit the global mock file")
	mockCmd.Flags().BoolVar(&mockJSON, "json", false, "print mocks as JSON")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tool, err := newTool(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == mock.Wildcard {
		mocked, err := tool.MockedPlatforms(ctx)
		if err != nil {
			return err
		}
		if mockJSON {
			return writeJSON(cmd.OutOrStdout(), mocked)
		}
		if len(mocked) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No mocked platforms.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderMapping("target_id_prefix", "platform_name", mocked, false))
		return nil
	}

	ops, err := mock.ParseOps(args[0])
	if err != nil {
		return err
	}
	scope := mock.ScopeLocal
	if mockGlobal {
		scope = mock.ScopeGlobal
	}
	if err := tool.Mock(ctx, scope, ops); err != nil {
		return err
	}
	for _, op := range ops {
		switch op.Kind {
		case mock.OpAdd:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", scope, op.Prefix, op.Name)
		case mock.OpRemove:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: removed %s\n", scope, op.Prefix)
		case mock.OpClear:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: cleared\n", scope)
		}
	}
	return nil
}
