package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	enigma "github.com/wagiedev/enigma-go"
)

// watch: print a layout every time the engine reports a change.
func watchCmd() *cobra.Command {
	var (
		docName  string
		objectID string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the layout of a document or object whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			reg := serveMetrics(ctx)

			return withSession(ctx, reg, func(s enigma.Session, global *enigma.ObjectAPI) error {
				return watch(ctx, cmd.OutOrStdout(), s, global, docName, objectID)
			})
		},
	}

	cmd.Flags().StringVar(&docName, "doc", "", "document to watch")
	cmd.Flags().StringVar(&objectID, "object", "", "generic object to watch inside the document")
	_ = cmd.MarkFlagRequired("doc")

	return cmd
}

func watch(ctx context.Context, w io.Writer, s enigma.Session, global *enigma.ObjectAPI, docName, objectID string) error {
	doc, err := enigma.Await[*enigma.ObjectAPI](ctx, global.Call(ctx, "OpenDoc", docName))
	if err != nil {
		return fmt.Errorf("open %s: %w", docName, err)
	}

	target, layoutMethod := doc, "GetAppLayout"

	if objectID != "" {
		obj, err := enigma.Await[*enigma.ObjectAPI](ctx, doc.Call(ctx, "GetObject", objectID))
		if err != nil {
			return fmt.Errorf("get object %s: %w", objectID, err)
		}

		target, layoutMethod = obj, "GetLayout"
	}

	var printMu sync.Mutex

	printLayout := func() {
		layout, err := target.Call(ctx, layoutMethod).Wait(ctx)
		if err != nil {
			log.Warn("Failed to fetch layout", "handle", target.Handle, "error", err)

			return
		}

		printMu.Lock()
		defer printMu.Unlock()

		if err := printResult(w, layout); err != nil {
			log.Warn("Failed to print layout", "error", err)
		}
	}

	closed := make(chan struct{})

	var closeOnce sync.Once

	target.On(enigma.EventChanged, func(...any) { go printLayout() })
	target.On(enigma.EventClosed, func(...any) { closeOnce.Do(func() { close(closed) }) })

	s.On(enigma.EventSuspended, func(args ...any) {
		if evt, ok := args[0].(enigma.SuspendedEvent); ok {
			log.Warn("Session suspended", "initiator", evt.Initiator, "code", evt.Code)
		}
	})

	printLayout()

	select {
	case <-ctx.Done():
		return nil
	case <-closed:
		return fmt.Errorf("watched object %d was closed", target.Handle)
	}
}
