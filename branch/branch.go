// Package branch parses and validates branch names against the sachy naming
// convention: <type>/<scope>/<description>, plus hotfix/<description> for
// hotfixes.
package branch

import (
	"fmt"
	"regexp"
)

// Ref is a parsed branch name.
type Ref struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Description string `json:"description"`
	Hotfix      bool   `json:"hotfix,omitempty"`
}

var refRE = regexp.MustCompile(`^(?P<type>[a-z]+)/(?P<scope>[a-z]+)/(?P<desc>[A-Za-z0-9][A-Za-z0-9._-]*)$`)
var hotfixRE = regexp.MustCompile(`^hotfix/(?P<desc>[A-Za-z0-9][A-Za-z0-9._-]*)$`)

// Parse splits a branch name into its convention parts. Hotfix branches have
// no type or scope.
func Parse(name string) (*Ref, error) {
	if m := hotfixRE.FindStringSubmatch(name); m != nil {
		return &Ref{
			Name:        name,
			Description: m[1],
			Hotfix:      true,
		}, nil
	}
	m := refRE.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("branch: %q does not match <type>/<scope>/<description> or hotfix/<description>", name)
	}
	return &Ref{
		Name:        name,
		Type:        m[refRE.SubexpIndex("type")],
		Scope:       m[refRE.SubexpIndex("scope")],
		Description: m[refRE.SubexpIndex("desc")],
	}, nil
}

// Validate checks the parsed type and scope against the allowed lists.
// Hotfix branches carry neither.
func (r *Ref) Validate(types, scopes []string) error {
	if r.Hotfix {
		return nil
	}
	if len(types) > 0 && !contains(r.Type, types) {
		return fmt.Errorf("branch: type %q is disallowed", r.Type)
	}
	if len(scopes) > 0 && !contains(r.Scope, scopes) {
		return fmt.Errorf("branch: scope %q is disallowed", r.Scope)
	}
	return nil
}

// Check parses and validates in one step.
func Check(name string, types, scopes []string) (*Ref, error) {
	ref, err := Parse(name)
	if err != nil {
		return nil, err
	}
	if err := ref.Validate(types, scopes); err != nil {
		return nil, err
	}
	return ref, nil
}

func contains(s string, l []string) bool {
	for _, cand := range l {
		if s == cand {
			return true
		}
	}
	return false
}
