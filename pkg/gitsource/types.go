package gitsource

import "time"

// CommitInfo describes a commit.
type CommitInfo struct {
	SHA        string    `json:"sha"`
	Author     string    `json:"author"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
	Branch     string    `json:"branch"`
	Repository string    `json:"repository"`
}

// ShortSHA returns the first eight characters of the commit hash.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// PullResult is the outcome of a pull.
type PullResult struct {
	FromSHA string
	ToSHA   string

	// ChangedFiles are repository-relative paths added, modified or
	// deleted between FromSHA and ToSHA.
	ChangedFiles []string

	HadChanges bool
}
