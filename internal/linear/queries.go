package linear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const viewerDoc = `query {
  viewer {
    id
    name
    teamMemberships {
      nodes {
        team {
          id
          name
          projects {
            nodes { id name }
          }
        }
      }
    }
  }
}`

const teamStatesDoc = `query ($id: String!) {
  team(id: $id) {
    id
    name
    states {
      nodes { id name position }
    }
  }
}`

const issueCreateDoc = `mutation (
  $title: String!
  $teamId: String!
  $priority: Int
  $assigneeId: String
  $description: String
  $parentId: String
  $stateId: String
  $projectId: String
) {
  issueCreate(
    input: {
      title: $title
      priority: $priority
      teamId: $teamId
      assigneeId: $assigneeId
      stateId: $stateId
      description: $description
      parentId: $parentId
      projectId: $projectId
    }
  ) {
    issue { id identifier url }
  }
}`

const issueFields = `id
identifier
title
description
url
branchName
state { id name position }
children {
  nodes {
    id
    identifier
    title
    url
    state { id name position }
  }
}
comments {
  nodes {
    body
    createdAt
    editedAt
    url
    user { displayName }
    children {
      nodes {
        body
        createdAt
        editedAt
        url
        user { displayName }
      }
    }
  }
}`

var issueByBranchDoc = `query ($branch: String!) {
  issueVcsBranchSearch(branchName: $branch) {
    ` + issueFields + `
  }
}`

var issueByIDDoc = `query ($id: String!) {
  issue(id: $id) {
    ` + issueFields + `
  }
}`

const issueUpdateDoc = `mutation ($id: String!, $description: String!) {
  issueUpdate(id: $id, input: { description: $description }) {
    issue { id identifier url }
  }
}`

// excludedStateNames are never shown in listings. Fixed denylist, not
// configurable.
var excludedStateNames = []string{"Done", "Backlog", "Triage", "Canceled", "Closed", "Merged to Dev"}

type stateNode struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position float64 `json:"position"`
}

type issueNode struct {
	ID          string    `json:"id"`
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	BranchName  string    `json:"branchName"`
	State       stateNode `json:"state"`
	Children    *struct {
		Nodes []issueNode `json:"nodes"`
	} `json:"children"`
	Comments *struct {
		Nodes []commentNode `json:"nodes"`
	} `json:"comments"`
}

type commentNode struct {
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	EditedAt  string `json:"editedAt"`
	URL       string `json:"url"`
	User      *struct {
		DisplayName string `json:"displayName"`
	} `json:"user"`
	Children *struct {
		Nodes []commentNode `json:"nodes"`
	} `json:"children"`
}

// Viewer fetches the authenticated user with team memberships and each
// team's projects.
func (c *Client) Viewer(ctx context.Context) (Viewer, error) {
	body, err := c.Gql(viewerDoc).Run(ctx)
	if err != nil {
		return Viewer{}, err
	}

	var resp struct {
		Data *struct {
			Viewer *struct {
				ID              string `json:"id"`
				Name            string `json:"name"`
				TeamMemberships struct {
					Nodes []struct {
						Team struct {
							ID       string `json:"id"`
							Name     string `json:"name"`
							Projects struct {
								Nodes []struct {
									ID   string `json:"id"`
									Name string `json:"name"`
								} `json:"nodes"`
							} `json:"projects"`
						} `json:"team"`
					} `json:"nodes"`
				} `json:"teamMemberships"`
			} `json:"viewer"`
		} `json:"data"`
	}
	if err := decode("viewer", body, &resp); err != nil {
		return Viewer{}, err
	}
	if resp.Data == nil || resp.Data.Viewer == nil {
		return Viewer{}, &DecodeError{Op: "viewer", Err: errors.New("missing data.viewer"), Body: body}
	}

	viewer := Viewer{ID: resp.Data.Viewer.ID, Name: resp.Data.Viewer.Name}
	for _, node := range resp.Data.Viewer.TeamMemberships.Nodes {
		team := Team{ID: node.Team.ID, Name: node.Team.Name}
		for _, project := range node.Team.Projects.Nodes {
			team.Projects = append(team.Projects, Project{ID: project.ID, Name: project.Name})
		}
		viewer.Teams = append(viewer.Teams, team)
	}
	return viewer, nil
}

// TeamStates fetches the workflow states of a team, sorted ascending by
// position.
func (c *Client) TeamStates(ctx context.Context, teamID string) ([]State, error) {
	body, err := c.Gql(teamStatesDoc).String("id", teamID).Run(ctx)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data *struct {
			Team *struct {
				States struct {
					Nodes []stateNode `json:"nodes"`
				} `json:"states"`
			} `json:"team"`
		} `json:"data"`
	}
	if err := decode("states", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Team == nil {
		return nil, &DecodeError{Op: "states", Err: errors.New("missing data.team"), Body: body}
	}

	states := make([]State, 0, len(resp.Data.Team.States.Nodes))
	for _, node := range resp.Data.Team.States.Nodes {
		states = append(states, State{ID: node.ID, Name: node.Name, Position: node.Position})
	}
	sort.SliceStable(states, func(i, j int) bool { return states[i].Position < states[j].Position })
	return states, nil
}

// CreateIssue issues one create mutation and returns the API-assigned id,
// identifier, and URL.
func (c *Client) CreateIssue(ctx context.Context, in IssueCreateInput) (CreatedIssue, error) {
	body, err := c.Gql(issueCreateDoc).
		String("title", in.Title).
		String("teamId", in.TeamID).
		String("stateId", in.StateID).
		String("assigneeId", in.AssigneeID).
		String("description", in.Description).
		Int("priority", int(in.Priority)).
		MaybeString("projectId", in.ProjectID).
		MaybeString("parentId", in.ParentID).
		Run(ctx)
	if err != nil {
		return CreatedIssue{}, err
	}

	var resp struct {
		Data *struct {
			IssueCreate *struct {
				Issue *CreatedIssue `json:"issue"`
			} `json:"issueCreate"`
		} `json:"data"`
	}
	if err := decode("issue create", body, &resp); err != nil {
		return CreatedIssue{}, err
	}
	if resp.Data == nil || resp.Data.IssueCreate == nil || resp.Data.IssueCreate.Issue == nil {
		return CreatedIssue{}, &DecodeError{Op: "issue create", Err: errors.New("missing data.issueCreate.issue"), Body: body}
	}
	return *resp.Data.IssueCreate.Issue, nil
}

// IssueByBranch resolves the issue whose branch name matches the current
// git branch.
func (c *Client) IssueByBranch(ctx context.Context, branch string) (Issue, error) {
	body, err := c.Gql(issueByBranchDoc).String("branch", branch).Run(ctx)
	if err != nil {
		return Issue{}, err
	}

	var resp struct {
		Data *struct {
			IssueVcsBranchSearch *issueNode `json:"issueVcsBranchSearch"`
		} `json:"data"`
	}
	if err := decode("issue", body, &resp); err != nil {
		return Issue{}, err
	}
	if resp.Data == nil {
		return Issue{}, &DecodeError{Op: "issue", Err: errors.New("missing data"), Body: body}
	}
	if resp.Data.IssueVcsBranchSearch == nil {
		return Issue{}, fmt.Errorf("Branch `%s` not found", branch)
	}
	return mapIssue(*resp.Data.IssueVcsBranchSearch), nil
}

// IssueByID fetches a single issue by its opaque id.
func (c *Client) IssueByID(ctx context.Context, id string) (Issue, error) {
	body, err := c.Gql(issueByIDDoc).String("id", id).Run(ctx)
	if err != nil {
		return Issue{}, err
	}

	var resp struct {
		Data *struct {
			Issue *issueNode `json:"issue"`
		} `json:"data"`
	}
	if err := decode("issue", body, &resp); err != nil {
		return Issue{}, err
	}
	if resp.Data == nil {
		return Issue{}, &DecodeError{Op: "issue", Err: errors.New("missing data"), Body: body}
	}
	if resp.Data.Issue == nil {
		return Issue{}, errors.New("Issue not found")
	}
	return mapIssue(*resp.Data.Issue), nil
}

// ListIssues fetches up to 50 issues matching the conjunctive filter, always
// excluding the denylisted state names. Parents sort before leaf issues,
// then ascending by state name.
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	gql := c.Gql(buildIssueListDoc(filter))
	if filter.AssigneeID != "" {
		gql.String("assigneeId", filter.AssigneeID)
	}
	if filter.TeamID != "" {
		gql.String("teamId", filter.TeamID)
	}
	if filter.ProjectID != "" {
		gql.String("projectId", filter.ProjectID)
	}
	body, err := gql.Run(ctx)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data *struct {
			Issues *struct {
				Nodes []issueNode `json:"nodes"`
			} `json:"issues"`
		} `json:"data"`
	}
	if err := decode("issues", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Issues == nil {
		return nil, &DecodeError{Op: "issues", Err: errors.New("missing data.issues"), Body: body}
	}

	issues := make([]Issue, 0, len(resp.Data.Issues.Nodes))
	for _, node := range resp.Data.Issues.Nodes {
		issues = append(issues, mapIssue(node))
	}
	return SortIssues(issues), nil
}

// UpdateIssueDescription issues an update mutation with only the
// description field changed.
func (c *Client) UpdateIssueDescription(ctx context.Context, id, description string) (CreatedIssue, error) {
	body, err := c.Gql(issueUpdateDoc).
		String("id", id).
		String("description", description).
		Run(ctx)
	if err != nil {
		return CreatedIssue{}, err
	}

	var resp struct {
		Data *struct {
			IssueUpdate *struct {
				Issue *CreatedIssue `json:"issue"`
			} `json:"issueUpdate"`
		} `json:"data"`
	}
	if err := decode("issue update", body, &resp); err != nil {
		return CreatedIssue{}, err
	}
	if resp.Data == nil || resp.Data.IssueUpdate == nil || resp.Data.IssueUpdate.Issue == nil {
		return CreatedIssue{}, &DecodeError{Op: "issue update", Err: errors.New("missing data.issueUpdate.issue"), Body: body}
	}
	return *resp.Data.IssueUpdate.Issue, nil
}

// buildIssueListDoc assembles the list query with filter clauses for
// whichever ids are present. The builder only carries scalars, so the
// nested filter object lives in the document text.
func buildIssueListDoc(filter IssueFilter) string {
	quoted := make([]string, 0, len(excludedStateNames))
	for _, name := range excludedStateNames {
		quoted = append(quoted, strconv.Quote(name))
	}

	params := []string{}
	clauses := []string{fmt.Sprintf("state: { name: { nin: [%s] } }", strings.Join(quoted, ", "))}
	if filter.AssigneeID != "" {
		params = append(params, "$assigneeId: ID")
		clauses = append(clauses, "assignee: { id: { eq: $assigneeId } }")
	}
	if filter.TeamID != "" {
		params = append(params, "$teamId: ID")
		clauses = append(clauses, "team: { id: { eq: $teamId } }")
	}
	if filter.ProjectID != "" {
		params = append(params, "$projectId: ID")
		clauses = append(clauses, "project: { id: { eq: $projectId } }")
	}

	header := "query "
	if len(params) > 0 {
		header += "(" + strings.Join(params, ", ") + ") "
	}
	return header + `{
  issues(filter: { ` + strings.Join(clauses, ", ") + ` }, first: 50) {
    nodes {
      id
      identifier
      title
      description
      url
      branchName
      state { id name position }
      children {
        nodes { id identifier title }
      }
    }
  }
}`
}

// SortIssues orders parent issues before leaf issues, and within each group
// non-decreasingly by state name. The sort key is "<0|1>" + state name.
func SortIssues(issues []Issue) []Issue {
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return issueSortKey(sorted[i]) < issueSortKey(sorted[j])
	})
	return sorted
}

func issueSortKey(issue Issue) string {
	prefix := "1"
	if issue.IsParent() {
		prefix = "0"
	}
	return prefix + issue.State.Name
}

func mapIssue(node issueNode) Issue {
	issue := Issue{
		ID:          node.ID,
		Identifier:  node.Identifier,
		Title:       node.Title,
		Description: node.Description,
		URL:         node.URL,
		BranchName:  node.BranchName,
		State:       State{ID: node.State.ID, Name: node.State.Name, Position: node.State.Position},
	}
	if node.Children != nil {
		for _, child := range node.Children.Nodes {
			issue.Children = append(issue.Children, mapIssue(child))
		}
	}
	if node.Comments != nil {
		for _, comment := range node.Comments.Nodes {
			issue.Comments = append(issue.Comments, mapComment(comment))
		}
	}
	return issue
}

func mapComment(node commentNode) Comment {
	comment := Comment{
		Body:      node.Body,
		CreatedAt: node.CreatedAt,
		EditedAt:  node.EditedAt,
		URL:       node.URL,
	}
	if node.User != nil {
		comment.AuthorDisplayName = node.User.DisplayName
	}
	if node.Children != nil {
		for _, child := range node.Children.Nodes {
			comment.Children = append(comment.Children, mapComment(child))
		}
	}
	return comment
}

func decode(op, body string, out any) error {
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &DecodeError{Op: op, Err: err, Body: body}
	}
	return nil
}
