package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind/pkg/adapter"
	lcadapter "github.com/Itshalffull/propbind/pkg/adapters/lifecycle"
	"github.com/Itshalffull/propbind/pkg/core"
)

var (
	watchTarget string
	watchID     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print stored adapter changes as they happen",
	Long: `Watch the store for created, modified and deleted adapter records,
including edits made by other processes. Only the fs backend supports watching.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		kind := ""
		pattern := adapter.KindPrefix + "*/"
		if watchTarget != "" {
			a, err := svc.Adapter(watchTarget)
			if err != nil {
				return err
			}
			kind = a.Kind()
			pattern = kind + "/"
		}
		if watchID != "" {
			pattern += watchID
		} else {
			pattern += "*"
		}

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			return err
		}

		source := lcadapter.NewSource(events, kind)
		if err := source.Start(ctx); err != nil {
			return err
		}
		slog.Info("watching", "pattern", pattern)

		out := cmd.OutOrStdout()
		for ev := range source.Events() {
			if e, ok := ev.(core.Event); ok {
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.Type, e.Kind, e.ID)
				continue
			}
			fmt.Fprintln(out, ev)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchTarget, "target", "t", "", "Only watch one target")
	watchCmd.Flags().StringVar(&watchID, "id", "", "Only watch adapter ids matching this glob")
}
