// Package pr validates pull request titles and bodies against the sachy
// template. Titles mirror the commit header grammar with an extra
// "hotfix: <subject>" form; bodies follow the six-section template from
// PULL_REQUEST_TEMPLATE.md.
package pr

import (
	"fmt"
	"regexp"
	"strings"
)

// Title is a parsed pull request title.
type Title struct {
	Type    string `json:"type,omitempty"`
	Scope   string `json:"scope,omitempty"`
	Subject string `json:"subject"`
	Hotfix  bool   `json:"hotfix,omitempty"`
}

var titleRE = regexp.MustCompile(`^(?P<type>[a-z]+)(?:\((?P<scope>[a-z]+)\))?(?P<breaking>!)?: (?P<subject>.+)$`)

// ParseTitle parses a PR title. The hotfix form has no scope.
func ParseTitle(s string) (*Title, error) {
	m := titleRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("pr: title %q does not match <type>(<scope>): <subject>", s)
	}
	t := &Title{
		Type:    m[titleRE.SubexpIndex("type")],
		Scope:   m[titleRE.SubexpIndex("scope")],
		Subject: m[titleRE.SubexpIndex("subject")],
	}
	if t.Type == "hotfix" {
		t.Hotfix = true
	}
	return t, nil
}

// Validate checks the title's type and scope against the allowed lists. The
// hotfix form is exempt from both, and never carries a scope.
func (t *Title) Validate(types, scopes []string) error {
	if t.Hotfix {
		if t.Scope != "" {
			return fmt.Errorf("pr: hotfix title must not have a scope, got %q", t.Scope)
		}
		return nil
	}
	if len(types) > 0 && !contains(t.Type, types) {
		return fmt.Errorf("pr: title type %q is disallowed", t.Type)
	}
	if t.Scope != "" && len(scopes) > 0 && !contains(t.Scope, scopes) {
		return fmt.Errorf("pr: title scope %q is disallowed", t.Scope)
	}
	return nil
}

// Sections of the PR body template, in order.
var Sections = []string{
	"Description",
	"Motivation and Context",
	"Checklist",
	"How Has This Been Tested?",
	"Screenshots",
	"Additional Notes",
}

// ChecklistItems are the five fixed checklist entries of the template.
var ChecklistItems = []string{
	"My code follows the code style of this project",
	"I have added tests to cover my changes",
	"All new and existing tests passed",
	"I have updated the documentation accordingly",
	"My commit messages follow the commit convention",
}

// ChecklistItem is one checkbox line from the body.
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Body is a parsed PR body.
type Body struct {
	Sections  map[string]string `json:"sections"`
	Checklist []ChecklistItem   `json:"checklist"`
}

var headingRE = regexp.MustCompile(`^#{2,3}\s+(.+?)\s*$`)
var checkboxRE = regexp.MustCompile(`^\s*[-*]\s+\[(?P<state>[ xX])\]\s+(?P<text>.+?)\.?\s*$`)

// ParseBody splits a PR body into template sections and checklist items.
// Unknown headings start their own sections so extra content is kept, not
// lost.
func ParseBody(s string) *Body {
	b := &Body{Sections: make(map[string]string)}

	current := ""
	var buf []string
	flush := func() {
		if current == "" {
			return
		}
		b.Sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		buf = nil
	}

	for _, line := range strings.Split(s, "\n") {
		if m := headingRE.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			continue
		}
		if m := checkboxRE.FindStringSubmatch(line); m != nil {
			b.Checklist = append(b.Checklist, ChecklistItem{
				Text:    m[checkboxRE.SubexpIndex("text")],
				Checked: strings.EqualFold(m[checkboxRE.SubexpIndex("state")], "x"),
			})
		}
		buf = append(buf, line)
	}
	flush()
	return b
}

// Problem is a single template conformance finding.
type Problem struct {
	Msg  string `json:"msg"`
	Warn bool   `json:"warn,omitempty"`
}

func (p Problem) String() string { return p.Msg }

// Lint checks a parsed body against the template: every section present,
// every checklist item present and well-formed. Unchecked items are warnings
// unless strict is set, since the template itself ships unchecked.
func (b *Body) Lint(strict bool) []Problem {
	var problems []Problem
	for _, name := range Sections {
		if _, ok := b.Sections[name]; !ok {
			problems = append(problems, Problem{Msg: fmt.Sprintf("missing section %q", name)})
		}
	}

	for _, want := range ChecklistItems {
		found := false
		for _, item := range b.Checklist {
			if strings.EqualFold(item.Text, want) {
				found = true
				if !item.Checked {
					problems = append(problems, Problem{
						Msg:  fmt.Sprintf("checklist item %q is unchecked", want),
						Warn: !strict,
					})
				}
				break
			}
		}
		if !found {
			problems = append(problems, Problem{Msg: fmt.Sprintf("missing checklist item %q", want)})
		}
	}
	return problems
}

// Errors filters problems down to hard failures.
func Errors(problems []Problem) []Problem {
	var errs []Problem
	for _, p := range problems {
		if !p.Warn {
			errs = append(errs, p)
		}
	}
	return errs
}

// Template renders the canonical PR body template.
func Template() string {
	var sb strings.Builder
	for _, name := range Sections {
		sb.WriteString("## ")
		sb.WriteString(name)
		sb.WriteString("\n\n")
		if name == "Checklist" {
			for _, item := range ChecklistItems {
				sb.WriteString("- [ ] ")
				sb.WriteString(item)
				sb.WriteString(".\n")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func contains(s string, l []string) bool {
	for _, cand := range l {
		if s == cand {
			return true
		}
	}
	return false
}
