package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/vcs"
)

func TestStats(t *testing.T) {
	m := vcs.NewMock().SetCommits(
		&model.Commit{ID: "a1", Subject: "feat(core): add castling", Author: "ana"},
		&model.Commit{ID: "b2", Subject: "fix(core): off by one in ranks", Author: "ben"},
		&model.Commit{ID: "c3", Subject: "docs: describe branch naming", Author: "ana"},
		&model.Commit{ID: "d4", Subject: "wip stuff", Author: "ana"},
	)
	rnr, _, _ := newTestRunner(t, nil, m)

	stats, err := rnr.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if stats.Commits != 4 {
		t.Errorf("expected 4 commits, got %d", stats.Commits)
	}
	if stats.Unmatched != 1 {
		t.Errorf("expected 1 unmatched commit, got %d", stats.Unmatched)
	}

	expectCounts(t, stats, "commit_type", "feat", 1)
	expectCounts(t, stats, "commit_type", "fix", 1)
	expectCounts(t, stats, "commit_type", "docs", 1)
	expectCounts(t, stats, "scope", "core", 2)
	expectCounts(t, stats, "scope", "", 1)
	expectCounts(t, stats, "release_type", "SKIP", 1)
	expectCounts(t, stats, "author", "ana", 2)
	expectCounts(t, stats, "author", "ben", 1)
}

func expectCounts(t *testing.T, stats *Stats, bucket, label string, n int64) {
	t.Helper()
	got, found := stats.Counts[bucket][label]
	if !found {
		t.Errorf("expected bucket %q to have label %q", bucket, label)
		return
	}
	if got != n {
		t.Errorf("expected %s/%s count %d, got %d", bucket, label, n, got)
	}
}

func TestStatsTextSummary(t *testing.T) {
	m := vcs.NewMock().SetCommits(
		&model.Commit{ID: "a1", Subject: "feat(core): add castling", Author: "ana"},
		&model.Commit{ID: "d4", Subject: "wip stuff", Author: "ana"},
	)
	rnr, _, _ := newTestRunner(t, nil, m)

	stats, err := rnr.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	b := &bytes.Buffer{}
	if err := stats.TextSummary(b, false); err != nil {
		t.Fatal(err)
	}
	res := b.String()
	t.Logf("summary:\n%s", res)

	for _, expect := range []string{
		"2 commits (1 matched no policy)",
		"Commit Type:",
		"Release Type:",
		"Scope:",
		"Author:",
		"feat",
		"ana",
	} {
		if !strings.Contains(res, expect) {
			t.Errorf("expected summary to contain %q", expect)
		}
	}
}
