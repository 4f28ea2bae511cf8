package config

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Policy describes how commit subjects are parsed and how matched commits map
// to release types. The named groups "type", "scope", "breaking", and
// "subject" are extracted from SubjectRE when present.
type Policy struct {
	Name                  string            `json:"name"`
	SubjectRE             string            `json:"subject_regex"`
	BodyAnnotationStartRE string            `json:"body_annotation_start_regex"`
	BreakingChangeTypes   []string          `json:"breaking_change_annotations"`
	CommitTypes           map[string]string `json:"commit_types"`
	FallbackReleaseType   string            `json:"fallback_type,omitempty"`
	subjectRE             *regexp.Regexp
	bodyRE                *regexp.Regexp
}

func (p *Policy) GetSubjectRE() *regexp.Regexp {
	if p.SubjectRE == "" {
		return nil
	}
	if p.subjectRE == nil {
		p.subjectRE = regexp.MustCompile(p.SubjectRE)
	}
	return p.subjectRE
}

func (p *Policy) GetBodyAnnotationRE() *regexp.Regexp {
	if p.BodyAnnotationStartRE == "" {
		return nil
	}
	if p.bodyRE == nil {
		p.bodyRE = regexp.MustCompile(p.BodyAnnotationStartRE)
	}
	return p.bodyRE
}

var validReleaseTypes = []string{"SKIP", "PATCH", "MINOR", "MAJOR"}

func (p *Policy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("config: policy name is required")
	}
	if p.SubjectRE != "" {
		if _, err := regexp.Compile(p.SubjectRE); err != nil {
			return fmt.Errorf("config: policy %q subject regexp: %w", p.Name, err)
		}
	}
	if p.BodyAnnotationStartRE != "" {
		if _, err := regexp.Compile(p.BodyAnnotationStartRE); err != nil {
			return fmt.Errorf("config: policy %q body annotation regexp: %w", p.Name, err)
		}
	}
	for typ, rt := range p.CommitTypes {
		if !oneOf(rt, validReleaseTypes) {
			return fmt.Errorf("config: policy %q commit type %q has invalid release type %q", p.Name, typ, rt)
		}
	}
	if p.FallbackReleaseType != "" && !oneOf(p.FallbackReleaseType, validReleaseTypes) {
		return fmt.Errorf("config: policy %q has invalid fallback release type %q", p.Name, p.FallbackReleaseType)
	}
	return nil
}

func (p *Policy) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(fmt.Sprintf("Name: %s\n", p.Name))

	if p.SubjectRE != "" {
		bw.WriteString(fmt.Sprintf("Subject regexp: %s\n", p.SubjectRE))
	}
	if p.BodyAnnotationStartRE != "" {
		bw.WriteString(fmt.Sprintf("Body annotation regexp: %s\n", p.BodyAnnotationStartRE))
	}

	if len(p.BreakingChangeTypes) > 0 {
		bw.WriteString(fmt.Sprintf("Breaking change body annotation(s): %s\n", strings.Join(p.BreakingChangeTypes, ", ")))
	}

	if len(p.CommitTypes) > 0 {
		bw.WriteString("Commit types:\n")
		for k, v := range p.CommitTypes {
			bw.WriteString(fmt.Sprintf("  %16s: %16s\n", k, v))
		}
	}

	if p.FallbackReleaseType != "" {
		bw.WriteString(fmt.Sprintf("Fallback release type: %s\n", p.FallbackReleaseType))
	}

	return bw.Flush()
}

var builtinPolicies = []Policy{
	{
		// The convention documented in CONTRIBUTING.md:
		// <type>(<scope>): <subject>
		Name:                  "sachy",
		SubjectRE:             `^(?P<type>[a-z]+)(?:\((?P<scope>[a-z]+)\))?(?P<breaking>!)?:\s+(?P<subject>.+)$`,
		BodyAnnotationStartRE: `^(?P<name>[A-Z][A-Z -]+|Closes): `,
		BreakingChangeTypes:   []string{"BREAKING CHANGE"},
		CommitTypes: map[string]string{
			"feat":     "MINOR",
			"fix":      "PATCH",
			"refactor": "PATCH",
			"perf":     "PATCH",
			"style":    "PATCH",
			"docs":     "SKIP",
			"test":     "SKIP",
			"chore":    "SKIP",
		},
	},
	{
		Name:                "lax",
		SubjectRE:           `^(?P<scope>[A-Za-z0-9_-]+): `,
		FallbackReleaseType: "PATCH",
	},
}

func getBuiltinPolicy(name string) *Policy {
	for _, pol := range builtinPolicies {
		if name == pol.Name {
			p := pol
			return &p
		}
	}
	return nil
}
