package template

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lnr-cli/lnr/internal/config"
	"github.com/lnr-cli/lnr/internal/linear"
)

type createRecorder struct {
	mu       sync.Mutex
	requests []map[string]any
	failFrom int
}

func (rec *createRecorder) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, payload.Variables)
		n := len(rec.requests)
		rec.mu.Unlock()

		if rec.failFrom > 0 && n >= rec.failFrom {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"errors":[{"message":"boom"}]}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"issueCreate":{"issue":{"id":"issue-%d","identifier":"BE-%d","url":"https://linear.app/vardy/issue/BE-%d/test"}}}}`, n, n, n)
	})
}

func testOptions() Options {
	return Options{
		Team:     linear.Team{ID: "team-1", Name: "Backend"},
		Viewer:   linear.Viewer{ID: "viewer-1", Name: "Alan"},
		State:    linear.State{ID: "state-1", Name: "Todo"},
		Priority: linear.PriorityNormal,
	}
}

func recorderClient(t *testing.T, rec *createRecorder) *linear.Client {
	t.Helper()
	srv := httptest.NewServer(rec.handler(t))
	t.Cleanup(srv.Close)
	cfg := config.New(filepath.Join(t.TempDir(), "lnr.cfg"))
	cfg.MockURL = &srv.URL
	return linear.NewClient(cfg, "token")
}

func writeTemplate(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

const parentAndChildren = `
[parent]
title = "Release {{version}}"
description = "Cut release {{version}}"

[[children]]
title = "Tag {{version}}"

[[children]]
title = "Announce {{version}}"
description = "Post about {{version}}"

[variables]
version = "1.2.0"
`

func TestEvaluateThreadsParentID(t *testing.T) {
	rec := &createRecorder{}
	client := recorderClient(t, rec)
	path := writeTemplate(t, t.TempDir(), "release.toml", parentAndChildren)

	var out bytes.Buffer
	result, err := Evaluate(context.Background(), client, &out, path, testOptions())
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if result != "Done" {
		t.Fatalf("expected Done, got %q", result)
	}
	if len(rec.requests) != 3 {
		t.Fatalf("expected 3 create calls, got %d", len(rec.requests))
	}

	if rec.requests[0]["title"] != "Release 1.2.0" {
		t.Fatalf("expected rendered parent title, got %v", rec.requests[0]["title"])
	}
	if _, ok := rec.requests[0]["parentId"]; ok {
		t.Fatalf("expected no parentId on parent, got %v", rec.requests[0])
	}
	for _, req := range rec.requests[1:] {
		if req["parentId"] != "issue-1" {
			t.Fatalf("expected child parentId issue-1, got %v", req["parentId"])
		}
	}
	if rec.requests[2]["description"] != "Post about 1.2.0" {
		t.Fatalf("expected rendered child description, got %v", rec.requests[2]["description"])
	}

	output := out.String()
	if !strings.Contains(output, "- [issue-1] https://linear.app/vardy/issue/BE-1/test") {
		t.Fatalf("expected parent progress line, got:\n%s", output)
	}
	if !strings.Contains(output, "  - [issue-2]") {
		t.Fatalf("expected indented child line, got:\n%s", output)
	}
}

func TestEvaluateDirectorySortedAndFiltered(t *testing.T) {
	rec := &createRecorder{}
	client := recorderClient(t, rec)
	dir := t.TempDir()

	writeTemplate(t, dir, "b.toml", "[parent]\ntitle = \"B\"\n[variables]\n")
	writeTemplate(t, dir, "a.toml", "[parent]\ntitle = \"A\"\n[variables]\n")
	writeTemplate(t, dir, "Cargo.toml", "[package]\nname = \"ignored\"\n")
	writeTemplate(t, dir, "notes.txt", "not a template")

	var out bytes.Buffer
	if _, err := Evaluate(context.Background(), client, &out, dir, testOptions()); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if len(rec.requests) != 2 {
		t.Fatalf("expected 2 create calls, got %d", len(rec.requests))
	}
	if rec.requests[0]["title"] != "A" || rec.requests[1]["title"] != "B" {
		t.Fatalf("expected lexicographic order A then B, got %v", rec.requests)
	}
}

func TestEvaluateAbortsOnFailure(t *testing.T) {
	rec := &createRecorder{failFrom: 2}
	client := recorderClient(t, rec)
	path := writeTemplate(t, t.TempDir(), "release.toml", parentAndChildren)

	var out bytes.Buffer
	_, err := Evaluate(context.Background(), client, &out, path, testOptions())
	if err == nil {
		t.Fatalf("expected error from failing create")
	}
	// Parent created, first child failed, second child never attempted.
	if len(rec.requests) != 2 {
		t.Fatalf("expected 2 create calls before abort, got %d", len(rec.requests))
	}
}

func TestEvaluateBadTomlNamesPath(t *testing.T) {
	rec := &createRecorder{}
	client := recorderClient(t, rec)
	path := writeTemplate(t, t.TempDir(), "broken.toml", "[parent\ntitle =")

	var out bytes.Buffer
	_, err := Evaluate(context.Background(), client, &out, path, testOptions())
	if err == nil || !strings.Contains(err.Error(), "broken.toml") {
		t.Fatalf("expected parse error naming path, got %v", err)
	}
	if len(rec.requests) != 0 {
		t.Fatalf("expected no create calls, got %d", len(rec.requests))
	}
}

func TestEvaluateUnboundVariableFails(t *testing.T) {
	rec := &createRecorder{}
	client := recorderClient(t, rec)
	path := writeTemplate(t, t.TempDir(), "strict.toml", "[parent]\ntitle = \"{{missing}}\"\n[variables]\nx = \"Foo\"\n")

	var out bytes.Buffer
	_, err := Evaluate(context.Background(), client, &out, path, testOptions())
	if err == nil {
		t.Fatalf("expected strict render failure")
	}
	if len(rec.requests) != 0 {
		t.Fatalf("expected no create calls, got %d", len(rec.requests))
	}
}

func TestEvaluateIncludesProjectWhenSelected(t *testing.T) {
	rec := &createRecorder{}
	client := recorderClient(t, rec)
	path := writeTemplate(t, t.TempDir(), "release.toml", "[parent]\ntitle = \"T\"\n[variables]\n")

	opts := testOptions()
	opts.Project = &linear.Project{ID: "proj-1", Name: "Schema"}

	var out bytes.Buffer
	if _, err := Evaluate(context.Background(), client, &out, path, opts); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if rec.requests[0]["projectId"] != "proj-1" {
		t.Fatalf("expected projectId proj-1, got %v", rec.requests[0])
	}
}
