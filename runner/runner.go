// Package runner manages command-line execution
package runner

import (
	"bytes"
	"context"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/sachy/sachy/commit"
	"github.com/sachy/sachy/config"
	"github.com/sachy/sachy/vcs"
)

type Runner struct {
	cfg        config.Config
	vcs        vcs.Interface
	analyzer   *commit.Analyzer
	tag        *commit.Tag
	mainBranch string
}

func New(cfg config.Config, vcsi vcs.Interface) (*Runner, error) {
	tag, err := commit.NewTag(cfg.TagTemplate)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		vcs:      vcsi,
		tag:      tag,
		analyzer: commit.NewAnalyzer(cfg, vcsi, tag),
	}, nil
}

// WrongBranchError means the current branch is not the release branch.
type WrongBranchError struct {
	Want string
	Got  string
}

func (e WrongBranchError) Error() string {
	return fmt.Sprintf("runner: commit must be on branch %s, not %s", e.Want, e.Got)
}

func isWrongBranchError(err error) bool {
	_, ok := err.(WrongBranchError)
	return ok
}

// Check verifies the working tree is on the release branch before a
// destructive operation.
func (r *Runner) Check(ctx context.Context, rc string) error {
	if r.mainBranch == "" {
		branches := r.cfg.Branches
		if r.cfg.InCI && !r.cfg.BranchesSet {
			branches = nil
		}
		mainBranch, err := r.vcs.GetMainBranch(ctx, branches)
		if err != nil {
			r.cfg.Printf("Get remote failed, falling back to defaults: %v", r.cfg.Branches)
			mainBranch, err = r.vcs.GetMainBranch(ctx, r.cfg.Branches)
			if err != nil {
				return err
			}
		}
		r.mainBranch = mainBranch
		r.cfg.Debugf("Main branch is %q", mainBranch)
	}

	currBranch, err := r.vcs.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if currBranch != r.mainBranch && !r.cfg.Dryrun {
		return WrongBranchError{Want: r.mainBranch, Got: currBranch}
	}
	return nil
}

func (r *Runner) Analyze(ctx context.Context, rc string) ([]*commit.Version, error) {
	return r.analyzer.Analyze(ctx, rc)
}

func (r *Runner) LatestRelease(ctx context.Context, scope, rc string) (semver.Version, error) {
	return r.analyzer.LatestRelease(ctx, scope, rc)
}

func (r *Runner) CreateTags(ctx context.Context, versions []*commit.Version) error {
	for _, ver := range versions {
		tag, err := RenderTag(r.cfg, r.tag, ver)
		if err != nil {
			return err
		}
		r.cfg.Printf("creating tag %q for commit %s...", tag, ver.ShortCommit())

		b := &bytes.Buffer{}
		if err := r.shortlog(ctx, b, ver, r.cfg.Name); err != nil {
			return err
		}
		shortlog := b.String()
		r.cfg.Debugf("shortlog:\n\n---\n%s", shortlog)

		opts := vcs.TagOpts{Message: shortlog}
		if err := r.vcs.CreateTag(ctx, ver.Commit, tag, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) PushTags(ctx context.Context) error {
	return r.vcs.Push(ctx, "origin", r.mainBranch, vcs.PushOpts{FollowTags: true})
}

func RenderTag(cfg config.Config, t *commit.Tag, ver *commit.Version) (string, error) {
	return t.ExecuteString(commit.TagData{Version: ver})
}
