package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	normalizeID     string
	normalizeTarget string
	normalizeProps  string
	normalizeJSON   bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [props-json]",
	Short: "Normalize a prop set for one target",
	Long: `Normalize a JSON prop set for --target and store the result under --id.
Props are read from the argument, from --props or from stdin ("-" or none).
A random id is generated when --id is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		props := normalizeProps
		if len(args) == 1 {
			props = args[0]
		}
		if props == "" || props == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read props from stdin: %w", err)
			}
			props = string(data)
		}

		id := normalizeID
		if id == "" {
			id = uuid.NewString()
		}

		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		res, err := svc.Normalize(context.Background(), normalizeTarget, id, props)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if normalizeJSON {
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else if res.IsOK() {
			fmt.Fprintf(out, "%s\t%s\n", res.Adapter, res.Normalized)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
		}
		if !res.IsOK() {
			return errRejected
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVar(&normalizeID, "id", "", "Adapter id (default: random UUID)")
	normalizeCmd.Flags().StringVarP(&normalizeTarget, "target", "t", "", "Target name or alias")
	normalizeCmd.Flags().StringVar(&normalizeProps, "props", "", "Props as a JSON object")
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "Print the full result as JSON")
	normalizeCmd.MarkFlagRequired("target")
}
