package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/action/verify"
)

func init() {
	rootCmd.AddCommand(NewVerifyCommand())
}

func NewVerifyCommand() *cobra.Command {
	var verifyCmd = &cobra.Command{
		Use:   "verify [packages...]",
		Short: "check generated builders are up to date",
		Long:  "Regenerate builders in memory and report every file that differs from disk.",
		PreRunE: func(c *cobra.Command, _ []string) error {
			return bindOptionFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, tags, err := loadOptions(args)
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			drifts, err := verify.Verify(fs, opts, tags...)
			if err != nil {
				return err
			}
			if opts.Manifest != "" {
				more, err := verify.CompareManifest(fs, opts.InDir, opts.Manifest)
				if err != nil {
					return err
				}
				drifts = append(drifts, more...)
			}
			for _, d := range drifts {
				_, _ = fmt.Fprintln(c.OutOrStdout(), d.String())
			}
			if len(drifts) > 0 {
				return fmt.Errorf("%d generated file(s) out of date", len(drifts))
			}
			return nil
		},
	}
	addOptionFlags(verifyCmd)

	return verifyCmd
}
