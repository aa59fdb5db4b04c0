package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/buildergen/pkg/parser"
)

// optionsKey is the config section shared by generate and verify.
const optionsKey = "generate"

// optionFlags maps config keys below optionsKey to flag names.
var optionFlags = map[string]string{
	"in_dir":         "input-directory",
	"out_file":       "output-file",
	"types":          "types",
	"suffix":         "suffix",
	"factory_prefix": "factory-prefix",
	"policy":         "policy",
	"auto_each":      "auto-each",
	"exclude_files":  "exclude-files",
	"exclude_tags":   "exclude-tags",
	"manifest":       "manifest",
}

func addOptionFlags(c *cobra.Command) {
	d := parser.NewOptions()
	fs := c.Flags()
	fs.StringP("input-directory", "i", d.InDir, "directory package patterns are resolved from")
	fs.StringP("output-file", "f", d.OutFile, "file written into every package directory")
	fs.StringSliceP("types", "t", []string{}, "struct names to generate for, in addition to directive-marked ones")
	fs.StringP("suffix", "s", d.Suffix, "builder type suffix")
	fs.StringP("factory-prefix", "p", d.FactoryPrefix, "factory function prefix")
	fs.StringP("policy", "P", d.Policy, "Build failure policy: error, soft or loud")
	fs.BoolP("auto-each", "a", false, "add singular accumulators to repeated fields without a modifier")
	fs.StringSliceP("exclude-files", "x", []string{}, "doublestar globs of source files to skip")
	fs.StringSliceP("exclude-tags", "T", []string{}, "leave out fields with matching tags, ex: json:\"-\"")
	fs.StringP("manifest", "m", "", "manifest file recording generated files")
}

// bindOptionFlags binds the running command's flags. Binding happens per
// run because generate and verify share the same config keys.
func bindOptionFlags(c *cobra.Command) error {
	for key, flag := range optionFlags {
		if err := viper.BindPFlag(optionsKey+"."+key, c.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadOptions decodes the merged flags, config and environment into Options.
// Positional args replace the package patterns.
func loadOptions(args []string) (*parser.Options, []string, error) {
	// Flag and env values only surface through AllKeys; UnmarshalKey would
	// see the config file section alone.
	section := viper.New()
	for _, k := range viper.AllKeys() {
		if rest, ok := strings.CutPrefix(k, optionsKey+"."); ok {
			section.Set(rest, viper.Get(k))
		}
	}

	opts := parser.NewOptions()
	if err := section.Unmarshal(opts); err != nil {
		return nil, nil, fmt.Errorf("decode options: %w", err)
	}
	if len(args) > 0 {
		opts.Patterns = args
	}

	var tags []string
	for _, t := range viper.GetStringSlice(optionsKey + ".exclude_tags") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return opts, tags, nil
}
