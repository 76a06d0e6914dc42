package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pincode-cli/internal/dataset"
)

var inspectInput string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show dataset schema and pincode fill counts",
	Long:  "Loads the dataset and reports its columns, row count, and how many rows already carry a pincode. No network calls are made.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := firstNonEmpty(inspectInput, cfg.Input)

		ds, err := dataset.Load(input)
		if err != nil {
			return eris.Wrapf(err, "inspect: load %s", input)
		}

		cmd.Printf("File:    %s\n", input)
		cmd.Printf("Columns: %s\n", strings.Join(ds.Columns, ", "))
		cmd.Printf("Rows:    %d\n", ds.Len())

		codeIdx, ok := ds.ColumnIndex(cfg.Columns.Code)
		if !ok {
			cmd.Printf("Pincode column %q not present\n", cfg.Columns.Code)
			return nil
		}

		var filled int
		for i := 0; i < ds.Len(); i++ {
			if strings.TrimSpace(ds.Cell(i, codeIdx)) != "" {
				filled++
			}
		}
		cmd.Printf("Pincodes filled: %d\n", filled)
		cmd.Printf("Pincodes blank:  %d\n", ds.Len()-filled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectInput, "input", "", "dataset path (.xlsx or .csv)")
}
