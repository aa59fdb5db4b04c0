package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/action/generate"
	"github.com/cmmoran/buildergen/pkg/parser"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the buildergen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate [packages...]",
		Short: "generate builders",
		Long: "Generate a fluent builder for every struct marked with //" + parser.Directive +
			" or named by --types, writing one file per package.",
		PreRunE: func(c *cobra.Command, _ []string) error {
			return bindOptionFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, tags, err := loadOptions(args)
			if err != nil {
				return err
			}
			_, err = generate.Generate(afero.NewOsFs(), opts, tags...)
			return err
		},
	}
	addOptionFlags(generateCmd)

	return generateCmd
}
