package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("generate.policy", "soft")
	viper.Set("generate.suffix", "Maker")
	viper.Set("generate.auto_each", true)
	viper.Set("generate.exclude_files", []string{"**/*_mock.go"})
	viper.Set("generate.exclude_tags", []string{`json:"-"`, " "})

	opts, tags, err := loadOptions([]string{"./...", "./cmd"})
	require.NoError(t, err)
	require.Equal(t, "soft", opts.Policy)
	require.Equal(t, "Maker", opts.Suffix)
	require.Equal(t, "New", opts.FactoryPrefix)
	require.True(t, opts.AutoEach)
	require.Equal(t, []string{"**/*_mock.go"}, opts.ExcludeFiles)
	require.Equal(t, []string{"./...", "./cmd"}, opts.Patterns)
	require.Equal(t, []string{`json:"-"`}, tags)
}

func TestBindOptionFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	c := NewGenerateCommand()
	require.NoError(t, c.Flags().Set("policy", "loud"))
	require.NoError(t, c.Flags().Set("types", "User,Group"))
	require.NoError(t, bindOptionFlags(c))

	opts, _, err := loadOptions(nil)
	require.NoError(t, err)
	require.Equal(t, "loud", opts.Policy)
	require.Equal(t, []string{"User", "Group"}, opts.Types)
	require.Equal(t, "builder_gen.go", opts.OutFile)
	require.Equal(t, []string{"."}, opts.Patterns)
}

func TestParseLevel(t *testing.T) {
	for in, ok := range map[string]bool{"trace": true, "TRACE": true, "debug": true, "warn": true, "debug+1": true, "loud": false} {
		_, got := parseLevel(in)
		require.Equal(t, ok, got, in)
	}
}
