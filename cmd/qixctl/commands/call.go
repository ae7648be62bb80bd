package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	enigma "github.com/wagiedev/enigma-go"
)

// call: invoke a method on Global or on an opened document.
func callCmd() *cobra.Command {
	var docName string

	cmd := &cobra.Command{
		Use:   "call <method> [args...]",
		Short: "Call a method on Global, or on a document with --doc",
		Long: "Call invokes a method by name. Arguments are parsed as JSON and " +
			"fall back to plain strings, so `call OpenDoc sales.qvf` and " +
			"`call --doc sales.qvf Evaluate '\"Sum(Sales)\"'` both work.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			method, params := args[0], parseArgs(args[1:])

			return withSession(ctx, nil, func(_ enigma.Session, global *enigma.ObjectAPI) error {
				target := global

				if docName != "" {
					doc, err := enigma.Await[*enigma.ObjectAPI](ctx, global.Call(ctx, "OpenDoc", docName))
					if err != nil {
						return fmt.Errorf("open %s: %w", docName, err)
					}

					target = doc
				}

				result, err := target.Call(ctx, method, params...).Wait(ctx)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&docName, "doc", "", "document to open and call the method on")

	return cmd
}

// parseArgs decodes each argument as JSON, keeping it as a string otherwise.
func parseArgs(args []string) []any {
	out := make([]any, 0, len(args))

	for _, arg := range args {
		var v any
		if err := json.Unmarshal([]byte(arg), &v); err != nil {
			v = arg
		}

		out = append(out, v)
	}

	return out
}

func printResult(w io.Writer, result any) error {
	if api, ok := result.(*enigma.ObjectAPI); ok {
		result = map[string]any{
			"qHandle":      api.Handle,
			"qType":        api.Type,
			"qGenericId":   api.ID,
			"qGenericType": api.GenericType,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}
