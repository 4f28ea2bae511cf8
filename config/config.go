// Package config holds configuration for the sachy contribution checks:
// which commit types and scopes are recognized, the commit and branch
// grammars, and command-line behavior toggles.
package config

import (
	"errors"
	"fmt"

	"github.com/imdario/mergo"
)

type Config struct {
	Debug           bool       `json:"debug,omitempty"`
	Dryrun          bool       `json:"dryrun,omitempty"`
	Quiet           bool       `json:"quiet,omitempty"`
	InCI            bool       `json:"ci,omitempty"`
	All             bool       `json:"all,omitempty"`
	Major           bool       `json:"major,omitempty"`
	Minor           bool       `json:"minor,omitempty"`
	Patch           bool       `json:"patch,omitempty"`
	Strict          bool       `json:"strict,omitempty"`
	RequireScope    bool       `json:"require_scope,omitempty"`
	Name            string     `json:"name,omitempty"`
	Scope           string     `json:"scope,omitempty"`
	Branches        []string   `json:"branches,omitempty"`
	BranchesSet     bool       `json:"-"`
	ReleaseScopes   []string   `json:"release_scopes,omitempty"`
	AllowedTypes    []string   `json:"allowed_types,omitempty"`
	AllowedScopes   []string   `json:"allowed_scopes,omitempty"`
	Policies        []string   `json:"policies,omitempty"`
	CustomPolicies  []Policy   `json:"custom_policies,omitempty"`
	IgnorePolicies  bool       `json:"ignore_policies,omitempty"`
	TagTemplate     string     `json:"tag_template,omitempty"`
	LogTemplatePath string     `json:"shortlog_template_path,omitempty"`
	Term            TerminalIO `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

func (c Config) Validate() error {
	overrides := 0
	for _, set := range []bool{c.Major, c.Minor, c.Patch} {
		if set {
			overrides++
		}
	}
	if overrides > 1 {
		return errors.New("config: only one of major, minor, patch can be set")
	}
	if len(c.Policies) == 0 && !c.IgnorePolicies {
		return errors.New("config: at least one policy is required")
	}
	for _, name := range c.Policies {
		found := getBuiltinPolicy(name) != nil
		for _, pol := range c.CustomPolicies {
			if pol.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("config: policy %q not found", name)
		}
	}
	for _, pol := range c.CustomPolicies {
		if err := pol.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetPolicies returns the active policies in the order they were requested.
// Custom policies shadow builtins of the same name.
func (c Config) GetPolicies() []*Policy {
	var pols []*Policy
	for _, name := range c.Policies {
		var found *Policy
		for i := range c.CustomPolicies {
			if c.CustomPolicies[i].Name == name {
				found = &c.CustomPolicies[i]
				break
			}
		}
		if found == nil {
			found = getBuiltinPolicy(name)
		}
		if found != nil {
			pols = append(pols, found)
		}
	}
	return pols
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Term.Stdout, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Debug {
		return
	}
	c.Printf(msg, args...)
}

func (c Config) Warning(msg string, args ...interface{}) {
	c.Errorf("Warning: "+msg, args...)
}

func oneOf(s string, l []string) bool {
	for _, cand := range l {
		if s == cand {
			return true
		}
	}
	return false
}
