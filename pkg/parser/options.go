package parser

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cmmoran/buildergen/internal/generator"
)

// Directive marks a struct for builder generation when it appears in the
// struct's doc comment:
//
//	// User is a person.
//	//buildergen:generate
//	type User struct { ... }
const Directive = "buildergen:generate"

// TagFilter excludes a field when the struct tag matches Key and contains Value.
type TagFilter struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key" validate:"required"`
	Value string `json:"value" yaml:"value" mapstructure:"value" validate:"required"`
}

// Options control parsing and generation.
//
// InDir         – directory the package patterns are resolved from
// Patterns      – package patterns to load, default "."
// OutFile       – file name written into every package directory
// Types         – struct names to generate for, in addition to directive-marked ones
// Suffix        – builder type name is <Struct><Suffix>
// FactoryPrefix – factory function is <FactoryPrefix><Struct><Suffix>
// Policy        – Build failure policy: error, soft or loud
// AutoEach      – give repeated fields without a modifier an accumulator named
// after the singular of the field name
// ExcludeByTags – fields whose tags match are left out of the builder
// ExcludeFiles  – doublestar globs of source files to skip
// Manifest      – manifest file recording generated files, empty to disable
type Options struct {
	InDir         string      `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Patterns      []string    `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty" mapstructure:"patterns,omitempty" validate:"dive,required"`
	OutFile       string      `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty" validate:"required,endswith=.go"`
	Types         []string    `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty" mapstructure:"types,omitempty" validate:"dive,goident"`
	Suffix        string      `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty" validate:"required,goident"`
	FactoryPrefix string      `json:"factory_prefix,omitempty" yaml:"factory_prefix,omitempty" toml:"factory_prefix,omitempty" mapstructure:"factory_prefix,omitempty" validate:"required,goident"`
	Policy        string      `json:"policy,omitempty" yaml:"policy,omitempty" toml:"policy,omitempty" mapstructure:"policy,omitempty" validate:"oneof=error soft loud"`
	AutoEach      bool        `json:"auto_each,omitempty" yaml:"auto_each,omitempty" toml:"auto_each,omitempty" mapstructure:"auto_each,omitempty"`
	ExcludeByTags []TagFilter `json:"exclude_by_tags,omitempty" yaml:"exclude_by_tags,omitempty" toml:"exclude_by_tags,omitempty" mapstructure:"exclude_by_tags,omitempty" validate:"dive"`
	ExcludeFiles  []string    `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty" toml:"exclude_files,omitempty" mapstructure:"exclude_files,omitempty" validate:"dive,required"`
	Manifest      string      `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:         ".",
		Patterns:      []string{"."},
		OutFile:       "builder_gen.go",
		Suffix:        "Builder",
		FactoryPrefix: "New",
		Policy:        string(generator.PolicyError),
	}
}

// Normalize fills defaults and parses "key:value" tag filter strings, as
// given on the command line, into ExcludeByTags.
func (o *Options) Normalize(excludeByTagsStrings ...string) error {
	for _, s := range excludeByTagsStrings {
		key, val, ok := strings.Cut(s, ":")
		if !ok || key == "" || val == "" {
			return fmt.Errorf("invalid tag filter %q, want key:value", s)
		}
		o.ExcludeByTags = append(o.ExcludeByTags, TagFilter{Key: key, Value: strings.Trim(val, `"`)})
	}

	d := NewOptions()
	if len(o.InDir) == 0 {
		o.InDir = d.InDir
	}
	if abs, err := filepath.Abs(o.InDir); err == nil {
		o.InDir = abs
	}
	if len(o.Patterns) == 0 {
		o.Patterns = d.Patterns
	}
	if len(o.OutFile) == 0 {
		o.OutFile = d.OutFile
	}
	if len(o.Suffix) == 0 {
		o.Suffix = d.Suffix
	}
	if len(o.FactoryPrefix) == 0 {
		o.FactoryPrefix = d.FactoryPrefix
	}
	o.Policy = strings.ToLower(strings.TrimSpace(o.Policy))
	if len(o.Policy) == 0 {
		o.Policy = d.Policy
	}
	for i, t := range o.Types {
		o.Types[i] = strings.TrimSpace(t)
	}

	return nil
}

// Validate reports the first set of invalid options.
func (o *Options) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("goident", validateGoIdent); err != nil {
		return err
	}
	if err := v.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func validateGoIdent(fl validator.FieldLevel) bool {
	return token.IsIdentifier(fl.Field().String())
}

// GeneratorConfig converts the naming and policy options for the synthesizer.
func (o *Options) GeneratorConfig() (generator.Config, error) {
	p, err := generator.ParsePolicy(o.Policy)
	if err != nil {
		return generator.Config{}, err
	}
	return generator.Config{
		Suffix:        o.Suffix,
		FactoryPrefix: o.FactoryPrefix,
		Policy:        p,
	}, nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option              { return func(o *Options) { o.InDir = d } }
func WithOutFile(f string) Option            { return func(o *Options) { o.OutFile = f } }
func WithSuffix(s string) Option             { return func(o *Options) { o.Suffix = s } }
func WithFactoryPrefix(s string) Option      { return func(o *Options) { o.FactoryPrefix = s } }
func WithPolicy(p string) Option             { return func(o *Options) { o.Policy = p } }
func WithAutoEach() Option                   { return func(o *Options) { o.AutoEach = true } }
func WithManifest(path string) Option        { return func(o *Options) { o.Manifest = path } }
func WithPatterns(patterns ...string) Option { return func(o *Options) { o.Patterns = patterns } }
func WithTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.Types = append(o.Types, strings.TrimSpace(n))
		}
	}
}
func WithExcludeByTag(key, val string) Option {
	return func(o *Options) { o.ExcludeByTags = append(o.ExcludeByTags, TagFilter{key, val}) }
}
func WithExcludeFiles(globs ...string) Option {
	return func(o *Options) { o.ExcludeFiles = append(o.ExcludeFiles, globs...) }
}
