package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	enigma "github.com/wagiedev/enigma-go"
)

// version: print the engine component version.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the engine version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			return withSession(ctx, nil, func(_ enigma.Session, global *enigma.ObjectAPI) error {
				version, err := enigma.Await[map[string]any](ctx, global.Call(ctx, "EngineVersion"))
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), version["qComponentVersion"])

				return nil
			})
		},
	}
}
