package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind/pkg/classify"
)

var classifyRules bool

var classifyCmd = &cobra.Command{
	Use:   "classify <key>...",
	Short: "Show the class each prop key falls into",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if classifyRules {
			for i, r := range classify.Rules() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, r.Name, r.Class)
			}
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("at least one key is required")
		}
		for _, key := range args {
			fmt.Fprintf(w, "%s\t%s\n", key, classify.Classify(key))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyRules, "rules", false, "Print the ordered decision list instead")
}
