package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhelland/seqheat/pkg/experiment"
)

// infoCommand creates the info command for inspecting a table without
// plotting it.
func (c *CLI) infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [table.tsv]",
		Short: "Show a table's shape and metadata fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := experiment.LoadTSVFile(args[0])
			if err != nil {
				return err
			}

			nSamples, nFeatures := exp.Shape()
			fmt.Println(StyleTitle.Render(args[0]))
			if exp.Description != "" {
				printKeyValue("description", exp.Description)
			}
			printKeyValue("samples", fmt.Sprint(nSamples))
			printKeyValue("features", fmt.Sprint(nFeatures))
			printKeyValue("sample fields", strings.Join(exp.Samples.Fields(), ", "))
			printKeyValue("feature fields", strings.Join(exp.Features.Fields(), ", "))
			return nil
		},
	}
	return cmd
}
