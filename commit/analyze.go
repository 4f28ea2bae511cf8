package commit

import (
	"context"
	"errors"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/sachy/sachy/config"
	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/vcs"
)

// Analyzer matches commits against policies and computes the next release
// version for a scope.
type Analyzer struct {
	cfg config.Config
	vcs vcs.Interface
	tag *Tag
}

func NewAnalyzer(cfg config.Config, vcsi vcs.Interface, tag *Tag) *Analyzer {
	if tag == nil {
		var err error
		tag, err = NewTag(cfg.TagTemplate)
		if err != nil {
			panic(err)
		}
	}
	return &Analyzer{
		cfg: cfg,
		vcs: vcsi,
		tag: tag,
	}
}

// Match parses a commit subject and body against each policy in order,
// returning the analysis from the first policy that matches.
func (a *Analyzer) Match(mc *model.Commit, policies []*config.Policy) (*AnalyzedCommit, error) {
	for _, pol := range policies {
		ac, ok := matchPolicy(mc, pol)
		if !ok {
			continue
		}
		return ac, nil
	}
	return nil, fmt.Errorf("commit: no policy matched %q", mc.Subject)
}

func matchPolicy(mc *model.Commit, pol *config.Policy) (*AnalyzedCommit, bool) {
	re := pol.GetSubjectRE()
	if re == nil {
		return nil, false
	}
	m := re.FindStringSubmatch(mc.Subject)
	if m == nil {
		return nil, false
	}
	group := func(name string) string {
		idx := re.SubexpIndex(name)
		if idx < 0 || idx >= len(m) {
			return ""
		}
		return m[idx]
	}

	ac := &AnalyzedCommit{
		Commit:      mc,
		Policy:      pol,
		CommitType:  group("type"),
		Scope:       group("scope"),
		Description: group("subject"),
	}

	rt := ReleaseType(0)
	if ac.CommitType != "" {
		rts, ok := pol.CommitTypes[ac.CommitType]
		if ok {
			var err error
			rt, err = ParseReleaseType(rts)
			if err != nil {
				return nil, false
			}
		}
	}
	if rt == 0 {
		if pol.FallbackReleaseType == "" {
			return nil, false
		}
		var err error
		rt, err = ParseReleaseType(pol.FallbackReleaseType)
		if err != nil {
			return nil, false
		}
	}

	ac.Annotations = readAnnotations(mc.Body, pol)
	ac.Closes = readCloses(mc.Body)
	if group("breaking") != "" {
		ac.Breaking = true
	}
	for _, ann := range ac.Annotations {
		if oneOfStr(ann.Name, pol.BreakingChangeTypes) {
			ac.Breaking = true
		}
	}
	if ac.Breaking {
		rt = ReleaseMajor
	}

	ac.ReleaseType = rt
	return ac, true
}

// LatestRelease returns the most recent released version for scope. When rc
// is set, only matching prerelease tags are considered.
func (a *Analyzer) LatestRelease(ctx context.Context, scope, rc string) (semver.Version, error) {
	glob, err := a.tag.Glob(scope)
	if err != nil {
		return semver.Version{}, err
	}
	tags, err := a.vcs.ReadTags(ctx, glob)
	if err != nil {
		return semver.Version{}, err
	}
	return a.tag.SemverLatest(tags, rc)
}

// ReadCommitsSince reads the commits after the release tag for latest, or all
// commits when latest is the zero version.
func (a *Analyzer) ReadCommitsSince(ctx context.Context, scope string, latest semver.Version) ([]*model.Commit, error) {
	query := "HEAD"
	if latest.GT(semver.Version{}) {
		tag, err := a.tag.ExecuteString(TagData{Version: &Version{Version: latest, Scope: scope}})
		if err != nil {
			return nil, err
		}
		query = tag + "..HEAD"
	}
	return a.vcs.ReadCommits(ctx, query)
}

// Analyze computes the next version for the root scope, or for the scopes
// selected by config.
func (a *Analyzer) Analyze(ctx context.Context, rc string) ([]*Version, error) {
	scopes := []string{""}
	if a.cfg.Scope != "" {
		scopes = []string{a.cfg.Scope}
	} else if a.cfg.All {
		scopes = append(scopes, a.cfg.ReleaseScopes...)
	}

	var versions []*Version
	for _, scope := range scopes {
		ver, err := a.AnalyzeScope(ctx, scope, rc)
		if err != nil {
			return nil, err
		}
		if ver == nil {
			continue
		}
		versions = append(versions, ver)
	}
	return versions, nil
}

// AnalyzeScope computes the next version for a single scope. It returns a nil
// version without error when there are new commits but none of them warrant a
// release.
func (a *Analyzer) AnalyzeScope(ctx context.Context, scope, rc string) (*Version, error) {
	latest, err := a.LatestRelease(ctx, scope, "")
	if err != nil {
		return nil, err
	}
	a.cfg.Debugf("latest release for scope %q: %s", scope, latest)

	commits, err := a.ReadCommitsSince(ctx, scope, latest)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("commit: no new commits for scope %q", scope)
	}

	policies := a.cfg.GetPolicies()
	var acs AnalyzedCommits
	for _, mc := range commits {
		ac, err := a.Match(mc, policies)
		if err != nil {
			if !a.cfg.IgnorePolicies {
				a.cfg.Debugf("skipping unmatched commit %s %q", mc.ShortID(), mc.Subject)
				continue
			}
			ac = &AnalyzedCommit{Commit: mc, ReleaseType: ReleasePatch}
		}

		if scope == "" {
			if ac.Scope != "" && oneOfStr(ac.Scope, a.cfg.ReleaseScopes) {
				continue
			}
		} else if ac.Scope != scope {
			continue
		}
		acs = append(acs, ac)
	}
	if len(acs) == 0 {
		return nil, fmt.Errorf("commit: no release commits for scope %q", scope)
	}

	rt := a.maxReleaseType(acs)
	if rt <= ReleaseSkip {
		return nil, nil
	}

	next := bump(latest, rt)
	if rc != "" {
		pre, err := a.nextPre(ctx, scope, rc, next)
		if err != nil {
			return nil, err
		}
		next.Pre = pre
	}

	return &Version{
		Version:    next,
		Scope:      scope,
		AllCommits: acs,
		Commit:     acs[0].ID,
		RC:         rc,
	}, nil
}

func (a *Analyzer) maxReleaseType(acs AnalyzedCommits) ReleaseType {
	switch {
	case a.cfg.Major:
		return ReleaseMajor
	case a.cfg.Minor:
		return ReleaseMinor
	case a.cfg.Patch:
		return ReleasePatch
	}
	rt := ReleaseType(0)
	for _, ac := range acs {
		if ac.ReleaseType > rt {
			rt = ac.ReleaseType
		}
	}
	return rt
}

func (a *Analyzer) nextPre(ctx context.Context, scope, rc string, next semver.Version) ([]semver.PRVersion, error) {
	n := uint64(0)
	latestRC, err := a.LatestRelease(ctx, scope, rc)
	if err != nil && !errors.Is(err, ErrNoTags) {
		return nil, err
	}
	if err == nil &&
		latestRC.Major == next.Major &&
		latestRC.Minor == next.Minor &&
		latestRC.Patch == next.Patch &&
		len(latestRC.Pre) == 2 && latestRC.Pre[1].IsNum {
		n = latestRC.Pre[1].VersionNum + 1
	}
	return []semver.PRVersion{
		{VersionStr: rc},
		{VersionNum: n, IsNum: true},
	}, nil
}

func bump(v semver.Version, rt ReleaseType) semver.Version {
	next := v
	next.Pre = nil
	next.Build = nil
	switch rt {
	case ReleaseMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case ReleaseMinor:
		next.Minor++
		next.Patch = 0
	case ReleasePatch:
		next.Patch++
	}
	return next
}

func oneOfStr(s string, l []string) bool {
	for _, cand := range l {
		if s == cand {
			return true
		}
	}
	return false
}
