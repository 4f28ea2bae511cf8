package runner

import (
	"context"
	"io"
	"os"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sachy/sachy/commit"
)

const defaultShortlogTemplate = `{{ or .Version.Scope .Name "release" }}: v{{ .Version.Version }}
{{ range $section := .Sections }}
{{ $section.Heading }}:
{{ range $commit := $section.Commits }}
* {{ $commit.Commit.Subject }} ({{ $commit.ShortID }})
{{- end }}
{{ end }}
# Please enter the message for your changes. Lines starting with
# '#' will be ignored.
#
# An empty message does NOT abort the commit.
# ------------------------ >8 ------------------------
# Do not modify or remove the line above.
# Everything below it will be ignored.
`

type shortlogSection struct {
	Heading string
	Commits commit.AnalyzedCommits
}

type shortlogData struct {
	Version  *commit.Version
	Name     string
	Sections []shortlogSection
}

// headings for the commit types the sachy convention names. Anything else
// falls back to a title-cased type.
var typeHeadings = map[string]string{
	"feat":     "Features",
	"fix":      "Bug Fixes",
	"perf":     "Performance",
	"refactor": "Refactoring",
	"style":    "Style",
	"docs":     "Documentation",
	"test":     "Tests",
	"chore":    "Chores",
	"":         "Other Changes",
}

var titleCaser = cases.Title(language.English)

func typeHeading(commitType string) string {
	if h, ok := typeHeadings[commitType]; ok {
		return h
	}
	return titleCaser.String(commitType)
}

func sectionize(acs commit.AnalyzedCommits) []shortlogSection {
	var sections []shortlogSection
	byHeading := make(map[string]int)
	for _, ac := range acs {
		heading := typeHeading(ac.CommitType)
		i, ok := byHeading[heading]
		if !ok {
			i = len(sections)
			byHeading[heading] = i
			sections = append(sections, shortlogSection{Heading: heading})
		}
		sections[i].Commits = append(sections[i].Commits, ac)
	}
	return sections
}

func (r *Runner) shortlog(ctx context.Context, w io.Writer, ver *commit.Version, name string) error {
	if ver == nil {
		return nil
	}
	tmpl := defaultShortlogTemplate
	if r.cfg.LogTemplatePath != "" {
		b, err := os.ReadFile(r.cfg.LogTemplatePath)
		if err != nil {
			return err
		}
		tmpl = string(b)
	}
	t, err := template.New("shortlog").Parse(tmpl)
	if err != nil {
		return err
	}
	return t.Execute(w, shortlogData{
		Version:  ver,
		Name:     name,
		Sections: sectionize(ver.AllCommits),
	})
}
