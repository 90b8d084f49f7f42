package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhelland/seqheat/pkg/experiment"
)

// sortCommand creates the sort command for reordering a table on disk.
func (c *CLI) sortCommand() *cobra.Command {
	var by []string

	cmd := &cobra.Command{
		Use:   "sort [in.tsv] [out.tsv]",
		Short: "Sort a table's samples by metadata fields",
		Long: `Sort a table's samples by metadata fields and write the result.

Sorting is stable and applied field by field, so the last --by field is the
primary key. The input file is not modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			track := newProgress(logger)

			exp, err := experiment.LoadTSVFile(args[0])
			if err != nil {
				return err
			}
			for _, field := range by {
				if err := exp.SortSamples(field); err != nil {
					return err
				}
			}
			if err := experiment.WriteTSVFile(exp, args[1]); err != nil {
				return err
			}

			nSamples, _ := exp.Shape()
			track.done("Sorted table written")
			printSuccess("sorted %d samples", nSamples)
			printFile(args[1])
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&by, "by", nil, "metadata field(s) to sort by, in order")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}
