package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Normalize many prop sets from JSON lines",
	Long: `Read one request per line, {"target":"gtk","adapter":"card","props":"{...}"},
from the file or stdin and print one result per line in the same order.
"props" may also be given as a JSON object instead of a string.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var reqs []propbind.Request
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			req, err := parseRequest(text)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			reqs = append(reqs, req)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		results, err := svc.NormalizeAll(context.Background(), reqs)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return nil
	},
}

// parseRequest decodes one batch line. Props given as an object are
// re-encoded to the string form the adapters expect.
func parseRequest(line string) (propbind.Request, error) {
	var raw struct {
		Target  string          `json:"target"`
		Adapter string          `json:"adapter"`
		Props   json.RawMessage `json:"props"`
	}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return propbind.Request{}, fmt.Errorf("invalid request: %w", err)
	}

	req := propbind.Request{Target: raw.Target, Adapter: raw.Adapter}
	if req.Adapter == "" {
		req.Adapter = uuid.NewString()
	}

	var s string
	if err := json.Unmarshal(raw.Props, &s); err == nil {
		req.Props = s
	} else {
		req.Props = string(raw.Props)
	}
	return req, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
