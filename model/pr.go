package model

// PullRequest holds the parts of a pull request the convention checks care
// about. Commits are included when the check covers the full range.
type PullRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Commits []*Commit
}
