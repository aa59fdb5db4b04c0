package generator

import (
	"fmt"
	"strings"
)

// Policy selects how a generated Build method reports a missing required
// field. Every builder in one generated file uses the same policy.
//
//	PolicyError – Build() (*T, error); the error names every missing field.
//	PolicySoft  – Build() *T; nil on failure, no diagnostic.
//	PolicyLoud  – Build() *T; panics naming the first missing field.
type Policy string

const (
	PolicyError Policy = "error"
	PolicySoft  Policy = "soft"
	PolicyLoud  Policy = "loud"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyError, PolicySoft, PolicyLoud:
		return p, nil
	case "":
		return PolicyError, nil
	}
	return "", fmt.Errorf("unknown build policy %q (want error, soft or loud)", s)
}

// Config controls naming and the build policy of synthesized builders.
type Config struct {
	Suffix        string // builder type name is <Struct><Suffix>
	FactoryPrefix string // factory is <FactoryPrefix><Struct><Suffix>
	Policy        Policy
}

func DefaultConfig() Config {
	return Config{
		Suffix:        "Builder",
		FactoryPrefix: "New",
		Policy:        PolicyError,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Suffix == "" {
		c.Suffix = d.Suffix
	}
	if c.FactoryPrefix == "" {
		c.FactoryPrefix = d.FactoryPrefix
	}
	if c.Policy == "" {
		c.Policy = d.Policy
	}
	return c
}
