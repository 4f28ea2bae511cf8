package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sachy/sachy/branch"
	"github.com/sachy/sachy/commit"
	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/pr"
)

type CheckFailure struct {
	Failures []FailureEntry
}

type FailureEntry struct {
	rawLine     string
	commitID    string
	commitTitle string
	err         error
}

func (cf CheckFailure) Error() string {
	return fmt.Sprintf("%d check(s) failed", len(cf.Failures))
}

func (cf CheckFailure) Is(other error) bool {
	_, ok := other.(CheckFailure)
	return ok
}

func (cf CheckFailure) WriteFailure(w io.Writer) error {
	if len(cf.Failures) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)

	var grouped []CheckFailure
	for _, failure := range cf.Failures {
		foundPrev := false
		for i, c := range grouped {
			for _, prevFailure := range c.Failures {
				if failure.commitID != "" && failure.commitID == prevFailure.commitID {
					foundPrev = true
					break
				}
				if failure.commitTitle != "" && failure.commitTitle == prevFailure.commitTitle {
					foundPrev = true
					break
				}
			}
			if foundPrev {
				grouped[i].Failures = append(grouped[i].Failures, failure)
				break
			}
		}
		if !foundPrev {
			grouped = append(grouped, CheckFailure{Failures: []FailureEntry{failure}})
		}
	}

	for _, c := range grouped {
		title := c.Failures[0].commitTitle
		if title == "" {
			title = c.Failures[0].rawLine
		}
		bw.WriteString(title)
		bw.WriteString("\n")
		for _, failure := range c.Failures {
			bw.WriteString("  ")
			bw.WriteString(failure.err.Error())
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// CheckCommits validates raw commit messages against the active policies.
func (r *Runner) CheckCommits(ctx context.Context, commits []string) (commit.AnalyzedCommits, error) {
	var failures []FailureEntry
	policies := r.cfg.GetPolicies()
	var acs commit.AnalyzedCommits
	for _, c := range commits {
		mc := parseCommitMessage(c)

		ac, err := r.analyzer.Match(mc, policies)
		if err != nil {
			failures = append(failures, FailureEntry{commitID: mc.ID, commitTitle: mc.Subject, err: err})
			continue
		}
		acs = append(acs, ac)

		failures = append(failures, r.checkCommit(ac)...)
	}
	if len(failures) > 0 {
		return nil, CheckFailure{Failures: failures}
	}
	return acs, nil
}

func (r *Runner) checkCommit(ac *commit.AnalyzedCommit) []FailureEntry {
	var failures []FailureEntry

	fail := func(err error) {
		failures = append(failures, FailureEntry{commitID: ac.ID, commitTitle: ac.Commit.Subject, err: err})
	}
	if ac.Scope != "" && len(r.cfg.AllowedScopes) > 0 && !inStrs(ac.Scope, r.cfg.AllowedScopes) {
		fail(fmt.Errorf("scope %q is disallowed", ac.Scope))
	}
	if ac.CommitType != "" && len(r.cfg.AllowedTypes) > 0 && !inStrs(ac.CommitType, r.cfg.AllowedTypes) {
		fail(fmt.Errorf("commit type %q is disallowed", ac.CommitType))
	}
	if r.cfg.RequireScope && ac.Scope == "" {
		fail(errors.New("a scope is required"))
	}

	return failures
}

// parseCommitMessage reads a raw commit message into subject and body,
// dropping comment lines the way git commit does.
func parseCommitMessage(s string) *model.Commit {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return &model.Commit{Subject: s}
	}
	var cleaned []string
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "#") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	body := strings.TrimSpace(strings.Join(cleaned, "\n"))
	return &model.Commit{Subject: lines[0], Body: body}
}

// CheckReadCommit validates a single raw commit message from a reader, such
// as a commit-msg hook file on stdin.
func (r *Runner) CheckReadCommit(ctx context.Context, rdr io.Reader) (commit.AnalyzedCommits, error) {
	raw, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	return r.CheckCommits(ctx, []string{string(raw)})
}

// CheckCommitsFromGit checks all commits since the last release.
func (r *Runner) CheckCommitsFromGit(ctx context.Context, scope string) (commit.AnalyzedCommits, error) {
	if err := r.Check(ctx, ""); err != nil && !isWrongBranchError(err) {
		return nil, err
	}
	latest, err := r.analyzer.LatestRelease(ctx, scope, "")
	if err != nil && !errors.Is(err, commit.ErrNoTags) {
		return nil, err
	}
	commits, err := r.analyzer.ReadCommitsSince(ctx, scope, latest)
	if err != nil {
		return nil, err
	}
	policies := r.cfg.GetPolicies()
	var failures []FailureEntry
	var acs commit.AnalyzedCommits
	for _, mc := range commits {
		ac, err := r.analyzer.Match(mc, policies)
		if err != nil {
			failures = append(failures, FailureEntry{commitID: mc.ID, commitTitle: mc.Subject, err: err})
			continue
		}
		failures = append(failures, r.checkCommit(ac)...)
		acs = append(acs, ac)
	}

	if len(failures) > 0 {
		return nil, CheckFailure{Failures: failures}
	}
	return acs, nil
}

// CheckBranch validates a branch name, reading the current branch from the
// worktree when name is empty.
func (r *Runner) CheckBranch(ctx context.Context, name string) (*branch.Ref, error) {
	if name == "" {
		var err error
		name, err = r.vcs.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}
	}
	if inStrs(name, r.cfg.Branches) {
		// release branches are exempt from the topic branch grammar
		return &branch.Ref{Name: name}, nil
	}
	ref, err := branch.Check(name, r.cfg.AllowedTypes, r.cfg.AllowedScopes)
	if err != nil {
		return nil, CheckFailure{Failures: []FailureEntry{{rawLine: name, err: err}}}
	}
	return ref, nil
}

// CheckPRTitle validates a pull request title.
func (r *Runner) CheckPRTitle(ctx context.Context, title string) (*pr.Title, error) {
	t, err := pr.ParseTitle(title)
	if err != nil {
		return nil, CheckFailure{Failures: []FailureEntry{{rawLine: title, err: err}}}
	}
	if err := t.Validate(r.cfg.AllowedTypes, r.cfg.AllowedScopes); err != nil {
		return nil, CheckFailure{Failures: []FailureEntry{{rawLine: title, commitTitle: title, err: err}}}
	}
	return t, nil
}

// CheckPRBody validates a pull request body against the template. Warnings
// are printed; hard failures are returned.
func (r *Runner) CheckPRBody(ctx context.Context, rdr io.Reader) (*pr.Body, error) {
	raw, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	body := pr.ParseBody(string(raw))
	problems := body.Lint(r.cfg.Strict)

	var failures []FailureEntry
	for _, p := range problems {
		if p.Warn {
			r.cfg.Warning("%s", p.Msg)
			continue
		}
		failures = append(failures, FailureEntry{rawLine: "pull request body", err: errors.New(p.Msg)})
	}
	if len(failures) > 0 {
		return nil, CheckFailure{Failures: failures}
	}
	return body, nil
}

// CheckPR validates title and body together, collecting all failures.
func (r *Runner) CheckPR(ctx context.Context, req *model.PullRequest) error {
	var failures []FailureEntry

	appendFailures := func(err error) bool {
		if err == nil {
			return false
		}
		cf := CheckFailure{}
		if errors.As(err, &cf) {
			failures = append(failures, cf.Failures...)
			return false
		}
		return true
	}

	if _, err := r.CheckPRTitle(ctx, req.Title); appendFailures(err) {
		return err
	}
	if req.Body != "" {
		if _, err := r.CheckPRBody(ctx, strings.NewReader(req.Body)); appendFailures(err) {
			return err
		}
	}
	if req.Branch != "" {
		if _, err := r.CheckBranch(ctx, req.Branch); appendFailures(err) {
			return err
		}
	}

	if len(failures) > 0 {
		return CheckFailure{Failures: failures}
	}
	return nil
}

func inStrs(s string, cands []string) bool {
	for _, cand := range cands {
		if s == cand {
			return true
		}
	}
	return false
}
