package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
)

// Stats aggregates commit history by convention buckets.
type Stats struct {
	Commits   int64
	Unmatched int64
	Counts    map[string]map[string]int64
}

func (s *Stats) Add(bucket, label string, n int64) {
	counts := s.Counts[bucket]
	if counts == nil {
		counts = make(map[string]int64)
		s.Counts[bucket] = counts
	}
	counts[label] += n
}

const statsTopN = 10

// sortedLabels orders a bucket's labels by count, highest first, breaking
// ties by label.
func sortedLabels(counts map[string]int64) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

func (s *Stats) TextSummary(w io.Writer, all bool) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d commits", s.Commits)
	if s.Unmatched > 0 {
		fmt.Fprintf(bw, " (%d matched no policy)", s.Unmatched)
	}
	bw.WriteString("\n\n")

	buckets := make([]string, 0, len(s.Counts))
	for name := range s.Counts {
		buckets = append(buckets, name)
	}
	sort.Strings(buckets)

	for _, name := range buckets {
		counts := s.Counts[name]
		labels := sortedLabels(counts)
		if !all && len(labels) > statsTopN {
			labels = labels[:statsTopN]
		}
		fmt.Fprintf(bw, "%s:\n", toTitle(name))
		for _, label := range labels {
			n := counts[label]
			if label == "" {
				label = "n/a"
			}
			fmt.Fprintf(bw, "  %20s\t\t%d\n", label, n)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Stats reads the full history of the main branch and buckets commits by
// scope, commit type, release type, and author.
func (r *Runner) Stats(ctx context.Context) (*Stats, error) {
	if err := r.Check(ctx, ""); err != nil && !isWrongBranchError(err) {
		return nil, err
	}

	commits, err := r.vcs.ReadCommits(ctx, r.mainBranch)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Commits: int64(len(commits)),
		Counts:  make(map[string]map[string]int64),
	}

	policies := r.cfg.GetPolicies()
	for _, c := range commits {
		ac, err := r.analyzer.Match(c, policies)
		if err != nil {
			stats.Unmatched++
			continue
		}
		stats.Add("scope", ac.Scope, 1)
		stats.Add("commit_type", ac.CommitType, 1)
		stats.Add("release_type", ac.ReleaseType.String(), 1)
		stats.Add("author", c.Author, 1)
	}
	return stats, nil
}

var nonAlphaRE = regexp.MustCompile(`[^A-Za-z]`)

func toTitle(s string) string {
	s = nonAlphaRE.ReplaceAllLiteralString(s, " ")
	return titleCaser.String(s)
}
