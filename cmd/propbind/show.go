package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var showPretty bool

var showCmd = &cobra.Command{
	Use:   "show <target> <adapter-id>",
	Short: "Print the stored normalized props of an adapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		rec, err := svc.Record(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		if !showPretty {
			fmt.Fprintln(cmd.OutOrStdout(), rec.Normalized)
			return nil
		}
		var v any
		if err := json.Unmarshal([]byte(rec.Normalized), &v); err != nil {
			return fmt.Errorf("stored record is not valid JSON: %w", err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&showPretty, "pretty", "p", false, "Indent the output")
}
