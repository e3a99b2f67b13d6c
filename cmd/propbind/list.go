package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind/pkg/core"
)

var (
	listJSON   bool
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list [target]",
	Short: "List stored adapters, for one target or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		targets := svc.Targets()
		if len(args) == 1 {
			a, err := svc.Adapter(args[0])
			if err != nil {
				return err
			}
			targets = []string{a.Target()}
		}

		var filter core.Record
		if listFilter != "" {
			filter = core.Record{"adapter": listFilter}
		}

		var all []core.AdapterRecord
		for _, target := range targets {
			recs, err := svc.Records(context.Background(), target, filter)
			if err != nil {
				return err
			}
			all = append(all, recs...)
		}

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		}
		for _, rec := range all {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Target, rec.Adapter)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listFilter, "id", "", "Filter adapter ids by glob (e.g. card-*)")
}
