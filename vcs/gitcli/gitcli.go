// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sachy/sachy/config"
	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

func (g *Git) Fetch(ctx context.Context, upstream, ref string) error {
	if upstream == "" {
		upstream = "origin"
	}
	args := []string{"fetch", "--tags", upstream}
	if ref != "" {
		args = append(args, ref)
	}
	_, err := g.call(ctx, args)
	return err
}

func (g *Git) Push(ctx context.Context, upstream, ref string, opts vcs.PushOpts) error {
	args := []string{"push"}
	if opts.FollowTags {
		args = append(args, "--follow-tags")
	}
	if opts.Tags {
		args = append(args, "--tags")
	}
	if upstream == "" {
		upstream = "origin"
	}
	args = append(args, upstream, ref)

	if g.cfg.Dryrun {
		g.cfg.Printf("+ git %s (dryrun)", argsString(args))
		return nil
	}
	_, err := g.call(ctx, args)
	return err
}

const expectedLogParts = 9

func (g *Git) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	args := []string{
		"log", "--pretty=tformat:_START_%H_SEP_%aN_SEP_%ae_SEP_%ai_SEP_%cN_SEP_%ce_SEP_%ci_SEP_%s_SEP_%b_END_", query,
	}
	b, err := g.call(ctx, args)
	if err != nil {
		return nil, err
	}

	var commits []*model.Commit
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	for scanner.Scan() {
		s := scanner.Text()
		parts := strings.Split(s, "_SEP_")
		if len(parts) != expectedLogParts {
			return nil, fmt.Errorf("gitcli: expected %d parts from git log, got %d", expectedLogParts, len(parts))
		}

		commitID := parts[0]
		if !strings.HasPrefix(commitID, "_START_") {
			return nil, fmt.Errorf("gitcli: unexpected git log line: %q", s)
		}
		commitID = strings.TrimPrefix(commitID, "_START_")

		// body can be multiple lines.
		var body string
		bodypart := parts[len(parts)-1]
		if strings.HasSuffix(bodypart, "_END_") {
			body = strings.TrimSuffix(bodypart, "_END_")
		} else {
			var bodyb strings.Builder
			bodyb.WriteString(bodypart)
			bodyb.WriteString("\n")
			for scanner.Scan() {
				bodyline := scanner.Text()
				if strings.HasSuffix(bodyline, "_END_") {
					if trimmed := strings.TrimSpace(strings.TrimSuffix(bodyline, "_END_")); trimmed != "" {
						bodyb.WriteString(trimmed)
					}
					break
				}
				bodyb.WriteString(bodyline)
				bodyb.WriteString("\n")
			}
			body = bodyb.String()
		}

		authorDate, err := ParseGitISO8601(parts[3])
		if err != nil {
			return nil, err
		}
		committerDate, err := ParseGitISO8601(parts[6])
		if err != nil {
			return nil, err
		}

		commits = append(commits, &model.Commit{
			ID:             commitID,
			Author:         parts[1],
			AuthorEmail:    parts[2],
			AuthorDate:     authorDate,
			Committer:      parts[4],
			CommitterEmail: parts[5],
			CommitterDate:  committerDate,
			Subject:        parts[7],
			Body:           body,
		})
	}
	return commits, nil
}

func (g *Git) CreateTag(ctx context.Context, commit, tag string, opts vcs.TagOpts) error {
	if opts.Message == "" {
		return errors.New("gitcli: message is required")
	}
	if g.cfg.InCI && (opts.Author == "" || opts.AuthorEmail == "") {
		g.cfg.Printf("CI: setting author, author email")
		opts.Author = "sachy-release"
		opts.AuthorEmail = "release@sachy.dev"
	}
	if g.cfg.InCI {
		if opts.Author != "" || opts.AuthorEmail != "" {
			if err := g.setAuthor(ctx, opts.Author, opts.AuthorEmail); err != nil {
				return err
			}
		}
	}

	args := []string{
		"tag", "-a", tag,
	}
	if commit != "" {
		args = append(args, commit)
	} else if opts.Commit != "" {
		args = append(args, opts.Commit)
	}
	args = append(args, "-m", opts.Message)

	if g.cfg.Dryrun {
		g.cfg.Printf("+ git %s (dryrun)", argsString(args))
		return nil
	}
	_, err := g.call(ctx, args)
	return err
}

func (g *Git) ReadTags(ctx context.Context, query string) ([]string, error) {
	args := []string{
		"tag",
	}
	if query != "" {
		args = append(args, "-l", query)
	}
	b, err := g.call(ctx, args)
	if err != nil {
		return nil, err
	}
	var tags []string
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	for scanner.Scan() {
		tags = append(tags, scanner.Text())
	}
	return tags, nil
}

func (g *Git) GetMainBranch(ctx context.Context, candidates []string) (string, error) {
	b, err := g.call(ctx, []string{"symbolic-ref", "--short", "refs/remotes/origin/HEAD"})
	if err == nil {
		name := strings.TrimSpace(string(b))
		name = strings.TrimPrefix(name, "origin/")
		if name != "" {
			return name, nil
		}
	}

	for _, cand := range candidates {
		if _, err := g.call(ctx, []string{"rev-parse", "--verify", "--quiet", "refs/heads/" + cand}); err == nil {
			return cand, nil
		}
	}
	return "", vcs.NotFoundError{Ref: strings.Join(candidates, ", ")}
}

func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "--abbrev-ref", "HEAD"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (g *Git) setAuthor(ctx context.Context, author, email string) error {
	userArgs := []string{"config", "user.name", author}
	emailArgs := []string{"config", "user.email", email}
	if g.cfg.Dryrun {
		g.cfg.Printf("+ git %s (dryrun)", argsString(userArgs))
		g.cfg.Printf("+ git %s (dryrun)", argsString(emailArgs))
		return nil
	}
	if _, err := g.call(ctx, userArgs); err != nil {
		return err
	}
	if _, err := g.call(ctx, emailArgs); err != nil {
		return err
	}
	return nil
}

// SetUpstreamToken points upstream at an https remote embedding a token, for
// CI pushes.
func (g *Git) SetUpstreamToken(ctx context.Context, upstream, url string) error {
	if upstream == "" {
		upstream = "origin"
	}
	if _, err := g.call(ctx, []string{"remote", "get-url", upstream}); err != nil {
		_, aerr := g.call(ctx, []string{"remote", "add", upstream, url})
		return aerr
	}
	_, serr := g.call(ctx, []string{"remote", "set-url", upstream, url})
	return serr
}
