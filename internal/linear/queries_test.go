package linear

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func fixtureServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViewerDecodesTeamsAndProjects(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"viewer":{"id":"viewer-1","name":"Alan",
		"teamMemberships":{"nodes":[
			{"team":{"id":"team-1","name":"Backend","projects":{"nodes":[{"id":"proj-1","name":"Schema"}]}}},
			{"team":{"id":"team-2","name":"Frontend","projects":{"nodes":[]}}}
		]}}}}`)

	viewer, err := testClient(t, srv.URL).Viewer(context.Background())
	if err != nil {
		t.Fatalf("Viewer() error: %v", err)
	}
	if viewer.ID != "viewer-1" {
		t.Fatalf("expected viewer-1, got %s", viewer.ID)
	}
	if len(viewer.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(viewer.Teams))
	}
	if len(viewer.Teams[0].Projects) != 1 || viewer.Teams[0].Projects[0].Name != "Schema" {
		t.Fatalf("expected Schema project, got %+v", viewer.Teams[0].Projects)
	}
}

func TestViewerDecodeFailureEmbedsBody(t *testing.T) {
	srv := fixtureServer(t, `{"errors":[{"message":"unauthorized"}]}`)

	_, err := testClient(t, srv.URL).Viewer(context.Background())
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !strings.Contains(decodeErr.Body, "unauthorized") {
		t.Fatalf("expected raw body embedded, got %s", decodeErr.Body)
	}
}

func TestTeamStatesSortedByPosition(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"team":{"id":"team-1","name":"Backend","states":{"nodes":[
		{"id":"s3","name":"Done","position":3},
		{"id":"s1","name":"Todo","position":1},
		{"id":"s2","name":"In Progress","position":2}
	]}}}}`)

	states, err := testClient(t, srv.URL).TeamStates(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("TeamStates() error: %v", err)
	}
	names := make([]string, 0, len(states))
	for _, state := range states {
		names = append(names, state.Name)
	}
	if strings.Join(names, ",") != "Todo,In Progress,Done" {
		t.Fatalf("expected states sorted by position, got %v", names)
	}
}

func TestCreateIssueReturnsURL(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"issueCreate":{"issue":{
		"id":"issue-1","identifier":"BE-3354","url":"https://linear.app/vardy/issue/BE-3354/test"}}}}`)

	created, err := testClient(t, srv.URL).CreateIssue(context.Background(), IssueCreateInput{
		Title:      "Test",
		TeamID:     "team-1",
		StateID:    "state-1",
		AssigneeID: "viewer-1",
		Priority:   PriorityNormal,
	})
	if err != nil {
		t.Fatalf("CreateIssue() error: %v", err)
	}
	if created.URL != "https://linear.app/vardy/issue/BE-3354/test" {
		t.Fatalf("expected fixture URL, got %s", created.URL)
	}
}

func TestIssueByBranchNotFound(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"issueVcsBranchSearch":null}}`)

	_, err := testClient(t, srv.URL).IssueByBranch(context.Background(), "missing-branch")
	if err == nil || !strings.Contains(err.Error(), "`missing-branch` not found") {
		t.Fatalf("expected branch not found error, got %v", err)
	}
}

func TestIssueByIDNotFound(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"issue":null}}`)

	_, err := testClient(t, srv.URL).IssueByID(context.Background(), "issue-1")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected issue not found error, got %v", err)
	}
}

func TestListIssuesSortsAndFormats(t *testing.T) {
	color.NoColor = true
	srv := fixtureServer(t, `{"data":{"issues":{"nodes":[
		{"id":"i1","identifier":"SHO-2148","title":"Modify schema","url":"https://linear.app/vardy/issue/SHO-2148","branchName":"sho-2148",
			"state":{"id":"s1","name":"Todo","position":1},"children":{"nodes":[]}},
		{"id":"i2","identifier":"SHO-2100","title":"Epic","url":"https://linear.app/vardy/issue/SHO-2100","branchName":"sho-2100",
			"state":{"id":"s2","name":"In Progress","position":2},"children":{"nodes":[{"id":"i3","identifier":"SHO-2101","title":"Child"}]}}
	]}}}`)

	issues, err := testClient(t, srv.URL).ListIssues(context.Background(), IssueFilter{AssigneeID: "viewer-1"})
	if err != nil {
		t.Fatalf("ListIssues() error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if !issues[0].IsParent() || issues[1].IsParent() {
		t.Fatalf("expected parent issue first, got %v then %v", issues[0].Identifier, issues[1].Identifier)
	}

	out := FormatIssueList(issues)
	if !strings.Contains(out, "SHO-2148 | Modify schema") {
		t.Fatalf("expected listing line, got:\n%s", out)
	}
	if !strings.Contains(out, "Todo") {
		t.Fatalf("expected state name, got:\n%s", out)
	}
}

func TestSortIssuesParentsFirstThenStateName(t *testing.T) {
	child := []Issue{{ID: "c"}}
	issues := []Issue{
		{Identifier: "A", State: State{Name: "Todo"}},
		{Identifier: "B", State: State{Name: "In Progress"}, Children: child},
		{Identifier: "C", State: State{Name: "In Progress"}},
		{Identifier: "D", State: State{Name: "Todo"}, Children: child},
	}

	sorted := SortIssues(issues)
	order := make([]string, 0, len(sorted))
	for _, issue := range sorted {
		order = append(order, issue.Identifier)
	}
	if strings.Join(order, "") != "BDCA" {
		t.Fatalf("expected order BDCA, got %v", order)
	}

	boundary := 0
	for i, issue := range sorted {
		if issue.IsParent() {
			boundary = i + 1
		}
	}
	for _, issue := range sorted[:boundary] {
		if !issue.IsParent() {
			t.Fatalf("expected all parents before leaves, got %v", order)
		}
	}
}

func TestUpdateIssueDescription(t *testing.T) {
	srv := fixtureServer(t, `{"data":{"issueUpdate":{"issue":{
		"id":"issue-1","identifier":"BE-3354","url":"https://linear.app/vardy/issue/BE-3354/test"}}}}`)

	updated, err := testClient(t, srv.URL).UpdateIssueDescription(context.Background(), "issue-1", "new text")
	if err != nil {
		t.Fatalf("UpdateIssueDescription() error: %v", err)
	}
	if updated.Identifier != "BE-3354" {
		t.Fatalf("expected BE-3354, got %s", updated.Identifier)
	}
}
