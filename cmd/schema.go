package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/builder"
	"github.com/cmmoran/buildergen/pkg/parser"
)

func init() {
	rootCmd.AddCommand(NewSchemaCommand())
}

func NewSchemaCommand() *cobra.Command {
	var (
		in, out string
		cfg     builder.Config
	)

	var schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "generate builders from a YAML schema",
		Long:  "Generate builders for the types described in a YAML schema file instead of Go source.",
		RunE: func(c *cobra.Command, _ []string) error {
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			schemas, err := builder.LoadSchemas(f)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if len(schemas) != 1 {
				return fmt.Errorf("%s holds %d packages; one output file takes exactly one", in, len(schemas))
			}
			s := schemas[0]
			if s.ImportPath == "" {
				if ip, err := parser.ImportPathForDir(filepath.Dir(out)); err == nil {
					s.ImportPath = ip
				} else {
					slog.Debug("no import path for output directory", "dir", filepath.Dir(out), "error", err)
				}
			}

			src, err := builder.Synthesize(s, cfg)
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			if err = fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err = afero.WriteFile(fs, out, src, 0o644); err != nil {
				return err
			}
			slog.Info("wrote builders", "file", out, "package", s.Package)
			return nil
		},
	}
	d := parser.NewOptions()
	schemaCmd.Flags().StringVarP(&in, "file", "f", "", "schema file")
	schemaCmd.Flags().StringVarP(&out, "output", "o", "", "output Go file")
	schemaCmd.Flags().StringVarP(&cfg.Suffix, "suffix", "s", d.Suffix, "builder type suffix")
	schemaCmd.Flags().StringVarP(&cfg.FactoryPrefix, "factory-prefix", "p", d.FactoryPrefix, "factory function prefix")
	schemaCmd.Flags().StringVarP(&cfg.Policy, "policy", "P", d.Policy, "Build failure policy: error, soft or loud")
	_ = schemaCmd.MarkFlagRequired("file")
	_ = schemaCmd.MarkFlagRequired("output")

	return schemaCmd
}
