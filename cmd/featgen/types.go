package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brattlof/featgen/internal/catalog"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available feature types and the files they produce",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if jsonOutput {
			types := make([]map[string]interface{}, 0)
			for _, ft := range catalog.All() {
				files := make([]string, len(ft.Files))
				for i, f := range ft.Files {
					files[i] = f.Path
				}
				types = append(types, map[string]interface{}{
					"key":         ft.Key,
					"description": ft.Description,
					"files":       files,
				})
			}
			data, err := json.MarshalIndent(map[string]interface{}{"types": types}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tFILE")
		fmt.Fprintln(w, "----\t----")
		for _, ft := range catalog.All() {
			for i, f := range ft.Files {
				key := ""
				if i == 0 {
					key = ft.Key
				}
				fmt.Fprintf(w, "%s\t%s\n", key, f.Path)
			}
		}
		return w.Flush()
	},
}

func init() {
	typesCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
