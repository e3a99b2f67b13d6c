package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind"
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/targets"
)

var targetsJSON bool

var targetsCmd = &cobra.Command{
	Use:   "targets [target]",
	Short: "List the supported targets, or the mapping tables of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			defer w.Flush()
			for _, name := range targets.Names() {
				spec, err := targets.Spec(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(spec.Aliases, ","), spec.Description)
			}
			return nil
		}

		// Listing tables needs the configured overrides, not the store.
		svc, _, err := openService(cmd, propbind.WithBackend(propbind.BackendMemory))
		if err != nil {
			return err
		}
		a, err := svc.Adapter(args[0])
		if err != nil {
			return err
		}
		st, ok := a.(introspection.Introspectable)
		if !ok {
			return fmt.Errorf("target %s exposes no tables", a.Target())
		}
		tables, ok := st.State().(adapter.State)
		if !ok {
			return fmt.Errorf("target %s exposes no tables", a.Target())
		}

		if targetsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tables)
		}

		fmt.Fprintf(out, "%s: %s\n", tables.Target, tables.Description)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		defer w.Flush()
		for _, ev := range sortedKeys(tables.Events) {
			fmt.Fprintf(w, "event\t%s\t%s\n", ev, tables.Events[ev])
		}
		for _, ev := range tables.Unsupported {
			fmt.Fprintf(w, "unsupported\t%s\t\n", ev)
		}
		for _, kind := range sortedKeys(tables.Layouts) {
			fmt.Fprintf(w, "layout\t%s\t%s\n", kind, tables.Layouts[kind])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "Output in JSON format")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
