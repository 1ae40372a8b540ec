package linear

// Viewer is the authenticated user. Fetched fresh per invocation, never
// persisted.
type Viewer struct {
	ID    string
	Name  string
	Teams []Team
}

// Team is a Linear team. Projects and States are populated only by the
// queries that fetch them.
type Team struct {
	ID       string
	Name     string
	Projects []Project
	States   []State
}

type Project struct {
	ID   string
	Name string
}

// State is a workflow status scoped to a team. Position determines the sort
// rank among sibling states.
type State struct {
	ID       string
	Name     string
	Position float64
}

func (s State) String() string { return s.Name }

// Issue is always sourced from an API response; the id/identifier pair is
// opaque and never constructed locally.
type Issue struct {
	ID          string
	Identifier  string
	Title       string
	Description string
	URL         string
	BranchName  string
	State       State
	Children    []Issue
	Comments    []Comment
}

// IsParent reports whether the issue has sub-issues, a derived property.
func (i Issue) IsParent() bool { return len(i.Children) > 0 }

// Comment carries one level of threaded replies in Children.
type Comment struct {
	Body              string
	CreatedAt         string
	EditedAt          string
	URL               string
	AuthorDisplayName string
	Children          []Comment
}

// CreatedIssue is the slice of an issue returned by create mutations.
type CreatedIssue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

// IssueFilter is a conjunctive filter for issue listings. Empty fields are
// left out of the request.
type IssueFilter struct {
	AssigneeID string
	TeamID     string
	ProjectID  string
}

// IssueCreateInput is the variable set for one create mutation. ProjectID
// and ParentID are omitted from the request entirely when nil.
type IssueCreateInput struct {
	Title       string
	Description string
	TeamID      string
	StateID     string
	AssigneeID  string
	Priority    Priority
	ProjectID   *string
	ParentID    *string
}
