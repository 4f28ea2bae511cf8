package commit

import (
	"github.com/blang/semver/v4"
)

// Version is the result of analyzing a scope's commits since its last
// release.
type Version struct {
	semver.Version
	Scope      string          `json:"scope,omitempty"`
	AllCommits AnalyzedCommits `json:"all_commits"`
	Commit     string          `json:"commit"`
	RC         string          `json:"rc,omitempty"`

	// glob renders the version as a wildcard, standing in for every
	// release of the scope when listing tags.
	glob bool
}

func (v *Version) String() string { return v.V() }

// V renders the numeric version. Prerelease parts are appended by the tag
// template instead, so glob renderings stay free of them.
func (v *Version) V() string {
	if v.glob {
		return "*"
	}
	base := v.Version
	base.Pre = nil
	return base.String()
}

// Pre returns the prerelease identifiers as plain strings.
func (v *Version) Pre() []string {
	parts := make([]string, len(v.Version.Pre))
	for i, p := range v.Version.Pre {
		parts[i] = p.String()
	}
	return parts
}

func (v *Version) ShortCommit() string {
	if len(v.Commit) < 8 {
		return v.Commit
	}
	return v.Commit[:8]
}
