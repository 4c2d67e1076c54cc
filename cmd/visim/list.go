package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List impairment ids",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolP("all", "a", false, "Include the anomalous trichromacy variants")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	kinds := impairment.Selectable()
	if all {
		kinds = impairment.All()
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, k := range kinds {
		fmt.Fprintf(w, "%s\t%s\n", k, k.Name())
	}
	return w.Flush()
}
