package commit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sachy/sachy/config"
	"github.com/sachy/sachy/model"
)

// AnalyzedCommit is a commit that matched a policy. CommitType, Scope, and
// Description come from the subject grammar; Annotations and Closes from the
// footer.
type AnalyzedCommit struct {
	*model.Commit
	CommitType  string       `json:"commit_type,omitempty"`
	Scope       string       `json:"scope,omitempty"`
	Description string       `json:"description,omitempty"`
	ReleaseType ReleaseType  `json:"-"`
	Breaking    bool         `json:"breaking,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Closes      []int        `json:"closes,omitempty"`
	Policy      *config.Policy
}

type AnalyzedCommits []*AnalyzedCommit

// Annotation is a "NAME: value" line from a commit footer, such as
// "BREAKING CHANGE: ..." or "Closes: #12".
type Annotation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func readAnnotations(body string, pol *config.Policy) []Annotation {
	re := pol.GetBodyAnnotationRE()
	if re == nil {
		return nil
	}
	var annotations []Annotation
	for _, line := range strings.Split(body, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[0]
		if idx := re.SubexpIndex("name"); idx >= 0 && idx < len(m) {
			name = m[idx]
		}
		annotations = append(annotations, Annotation{
			Name:  name,
			Value: strings.TrimSpace(line[len(m[0]):]),
		})
	}
	return annotations
}

var closesRE = regexp.MustCompile(`(?i)\bclose[sd]?:?\s+#(\d+)`)

// readCloses extracts issue numbers from "Closes #N" footer references.
func readCloses(body string) []int {
	var refs []int
	for _, m := range closesRE.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		refs = append(refs, n)
	}
	return refs
}
