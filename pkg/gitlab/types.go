package gitlab

import "time"

// User is the part of a GitLab user the admin bracketing needs.
type User struct {
	ID       int
	Username string
	IsAdmin  bool
}

// Milestone links the project-local iid to the global id.
type Milestone struct {
	ID    int
	IID   int
	Title string
}

type Issue struct {
	ID     int
	IID    int
	Title  string
	State  string
	Labels []string
	WebURL string
}

// NewIssue is the payload of an issue creation.
type NewIssue struct {
	Title       string
	Description string
	Labels      []string
	AssigneeIDs []int
	MilestoneID *int
	DueDate     *time.Time
	// CreatedAt backdates the issue; needs admin or project owner rights
	CreatedAt time.Time
}

// NewNote is the payload of an issue comment.
type NewNote struct {
	Body      string
	CreatedAt time.Time
}

// CloseIssue closes an issue at a given time.
type CloseIssue struct {
	IssueIID int
	ClosedAt time.Time
}
