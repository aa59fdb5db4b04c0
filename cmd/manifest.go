package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(NewManifestCommand())
}

func NewManifestCommand() *cobra.Command {
	var path string

	var manifestCmd = &cobra.Command{
		Use:   "manifest",
		Short: "list generated files",
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := manifest.Load(afero.NewOsFs(), path)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "FILE\tPACKAGE\tPOLICY\tTYPES\tCHECKSUM")
			for _, e := range m.Entries {
				sum := e.Checksum
				if len(sum) > 12 {
					sum = sum[:12]
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.File, e.Package, e.Policy, strings.Join(e.Types, ","), sum)
			}
			return w.Flush()
		},
	}
	manifestCmd.Flags().StringVarP(&path, "manifest", "m", "buildergen.manifest.yaml", "manifest file")

	return manifestCmd
}
