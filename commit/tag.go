package commit

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/blang/semver/v4"
)

var ErrNoTags = errors.New("commit: no release tags found")

// errNotReleaseTag marks tags the release flow didn't write. They are
// skipped during version analysis instead of failing it.
var errNotReleaseTag = errors.New("commit: not a release tag")

// DefaultTagTemplate renders release tags as v<version>, prefixed with
// <scope>/ for scoped releases.
const DefaultTagTemplate = `{{- with $scope := .Version.Scope -}}
{{- $scope -}}/
{{- end -}}
v{{- semver .Version -}}`

type TagData struct {
	Version *Version
}

var tagFuncs = template.FuncMap{
	"join": strings.Join,
	"semver": func(v *Version) string {
		s := v.V()
		if pre := v.Pre(); len(pre) > 0 {
			s += "-" + strings.Join(pre, ".")
		}
		return s
	},
}

// Tag renders release tags from a go template.
type Tag struct {
	t *template.Template
}

// NewTag parses a tag template, falling back to DefaultTagTemplate when s is
// empty.
func NewTag(s string) (*Tag, error) {
	name, tmpl := "", DefaultTagTemplate
	if s != "" {
		name, tmpl = "custom_tag", s
	}
	t, err := template.New(name).Funcs(tagFuncs).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	return &Tag{t: t}, nil
}

func (t *Tag) Execute(w io.Writer, d TagData) error {
	return t.t.Execute(w, d)
}

func (t *Tag) ExecuteString(d TagData) (string, error) {
	b := &bytes.Buffer{}
	if err := t.Execute(b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Glob renders a git refname pattern matching every release tag for scope,
// prereleases included.
func (t *Tag) Glob(scope string) (string, error) {
	return t.ExecuteString(TagData{
		Version: &Version{glob: true, Scope: scope},
	})
}

// SemverLatest returns the greatest released version among tags. With an
// empty rc only stable releases count; otherwise only prereleases in the rc
// sequence of that name.
func (t *Tag) SemverLatest(tags []string, rc string) (semver.Version, error) {
	var versions []semver.Version
	for _, tag := range tags {
		v, err := parseReleaseVersion(tag)
		if err != nil {
			if errors.Is(err, errNotReleaseTag) {
				continue
			}
			return semver.Version{}, err
		}

		if rc == "" {
			if len(v.Pre) != 0 {
				continue
			}
		} else if len(v.Pre) == 0 || v.Pre[0].String() != rc {
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return semver.Version{}, ErrNoTags
	}

	sort.Slice(versions, func(i, j int) bool {
		return lessRelease(versions[i], versions[j])
	})
	return versions[len(versions)-1], nil
}

// releaseTagRE matches the version the tag template writes at the end of a
// release tag: MAJOR.MINOR.PATCH with an optional prerelease, no leading
// zeros. Whatever precedes the version (the "v", a scope prefix) is left to
// the template and ignored here.
var releaseTagRE = regexp.MustCompile(`(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z.-]+))?$`)

var (
	preNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z\d]*$`)
	preNumRE  = regexp.MustCompile(`^(0|[1-9]\d*)$`)
)

func parseReleaseVersion(tag string) (semver.Version, error) {
	m := releaseTagRE.FindStringSubmatch(tag)
	if m == nil {
		return semver.Version{}, errNotReleaseTag
	}

	var v semver.Version
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return semver.Version{}, errNotReleaseTag
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return semver.Version{}, errNotReleaseTag
	}
	if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return semver.Version{}, errNotReleaseTag
	}
	if m[4] != "" {
		if v.Pre, err = parsePre(m[4]); err != nil {
			return semver.Version{}, err
		}
	}

	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return semver.Version{}, ErrNoTags
	}
	return v, nil
}

// parsePre accepts only the <name>.<N> shape the rc flow writes, so stray
// tags like v1.0.0-beta never enter version analysis.
func parsePre(s string) ([]semver.PRVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || !preNameRE.MatchString(parts[0]) || !preNumRE.MatchString(parts[1]) {
		return nil, errNotReleaseTag
	}
	name, err := semver.NewPRVersion(parts[0])
	if err != nil {
		return nil, errNotReleaseTag
	}
	num, err := semver.NewPRVersion(parts[1])
	if err != nil {
		return nil, errNotReleaseTag
	}
	return []semver.PRVersion{name, num}, nil
}

// lessRelease orders versions, comparing prereleases in the same rc sequence
// by their number.
func lessRelease(a, b semver.Version) bool {
	if a.Major != b.Major || a.Minor != b.Minor || a.Patch != b.Patch {
		return a.LT(b)
	}
	if len(a.Pre) == 2 && len(b.Pre) == 2 &&
		a.Pre[0] == b.Pre[0] && a.Pre[1].IsNum && b.Pre[1].IsNum {
		return a.Pre[1].VersionNum < b.Pre[1].VersionNum
	}
	return a.LT(b)
}
