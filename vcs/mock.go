package vcs

import (
	"context"
	"strings"
	"time"

	"github.com/sachy/sachy/model"
)

// Mock is an in-memory Interface for tests.
type Mock struct {
	t       time.Time
	branch  string
	tags    []string
	commits []*model.Commit
	created []string
	pushes  int
}

func NewMock() *Mock {
	return &Mock{
		t:      time.Now(),
		branch: "main",
	}
}

func (m *Mock) SetTags(tags ...string) *Mock {
	m.tags = tags
	return m
}

func (m *Mock) SetBranch(name string) *Mock {
	m.branch = name
	return m
}

// SetCommits stores commits newest-first, assigning descending committer
// dates to any commit without one.
func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	finalCommits := make([]*model.Commit, len(commits))
	for i, commit := range commits {
		c := *commit
		if c.CommitterDate.IsZero() {
			c.CommitterDate = m.t
			m.t = m.t.Add(-time.Minute)
		}
		finalCommits[i] = &c
	}
	m.commits = finalCommits
	return m
}

// CreatedTags returns tags created through CreateTag, in order.
func (m *Mock) CreatedTags() []string { return m.created }

// Pushes returns the number of Push calls.
func (m *Mock) Pushes() int { return m.pushes }

func (m *Mock) Fetch(ctx context.Context, upstream, ref string) error {
	return nil
}

func (m *Mock) Push(ctx context.Context, upstream, ref string, opts PushOpts) error {
	m.pushes++
	return nil
}

func (m *Mock) CreateTag(ctx context.Context, commit, tag string, opts TagOpts) error {
	m.created = append(m.created, tag)
	m.tags = append(m.tags, tag)
	return nil
}

func (m *Mock) ReadTags(ctx context.Context, query string) ([]string, error) {
	var tags []string
	for _, t := range m.tags {
		if globMatches(t, query) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (m *Mock) ReadCommits(ctx context.Context, query string) ([]*model.Commit, error) {
	return m.commits, nil
}

func (m *Mock) GetMainBranch(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return m.branch, nil
	}
	for _, cand := range candidates {
		if cand == m.branch {
			return cand, nil
		}
	}
	return candidates[0], nil
}

func (m *Mock) CurrentBranch(ctx context.Context) (string, error) {
	return m.branch, nil
}

func globMatches(s string, glob string) bool {
	parts := strings.Split(glob, "*")
	remaining := s
	for {
		if len(parts) == 0 {
			break
		}
		part := parts[0]
		parts = parts[1:]

		if !strings.HasPrefix(remaining, part) {
			return false
		}
		remaining = strings.TrimPrefix(remaining, part)
	}
	if len(glob) > 0 && glob[len(glob)-1] == '*' {
		return true
	}
	return remaining == ""
}
