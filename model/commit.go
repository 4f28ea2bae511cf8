// Package model contains abstract data models.
package model

import "time"

// Commit is one commit as read from version control.
type Commit struct {
	ID             string    `json:"commit"`
	Author         string    `json:"author,omitempty"`
	AuthorEmail    string    `json:"author_email,omitempty"`
	AuthorDate     time.Time `json:"author_date,omitempty"`
	Committer      string    `json:"committer,omitempty"`
	CommitterEmail string    `json:"committer_email,omitempty"`
	CommitterDate  time.Time `json:"committer_date,omitempty"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body,omitempty"`
}

func (c *Commit) ShortID() string {
	if len(c.ID) < 8 {
		return c.ID
	}
	return c.ID[:8]
}
