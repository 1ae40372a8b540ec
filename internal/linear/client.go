// Package linear talks to the Linear GraphQL API: one HTTP POST per logical
// operation, with per-operation decoders that map the JSON envelope onto
// domain records.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/lnr-cli/lnr/internal/config"
)

const defaultAPIURL = "https://api.linear.app/graphql"

// ErrNoResponse is returned when the request could not be sent or no
// response was received. Single attempt, no retry.
var ErrNoResponse = errors.New("did not get response from server")

// APIError is a non-2xx HTTP response. The request URL and both bodies are
// embedded for debuggability.
type APIError struct {
	Status       int
	URL          string
	RequestBody  string
	ResponseBody string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linear API returned status %d\nurl: %s\nrequest: %s\nresponse: %s",
		e.Status, e.URL, e.RequestBody, e.ResponseBody)
}

// DecodeError is a response body that did not match the expected shape for
// an operation. The raw body is embedded verbatim.
type DecodeError struct {
	Op   string
	Err  error
	Body string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not parse response for %s: %v\n---\n%s", e.Op, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client issues GraphQL requests against a single endpoint with bearer-token
// auth. The endpoint can be overridden through the config's mock URL, which
// also disables the spinner.
type Client struct {
	apiURL   string
	token    string
	http     *http.Client
	spinners bool
}

func NewClient(cfg *config.Config, token string) *Client {
	apiURL := defaultAPIURL
	spinners := cfg.SpinnersEnabled()
	if cfg.MockURL != nil {
		apiURL = *cfg.MockURL
		spinners = false
	}
	return &Client{
		apiURL:   apiURL,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		spinners: spinners,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Gql accumulates named variables for a single query or mutation document
// and issues exactly one POST when run.
type Gql struct {
	client *Client
	doc    string
	vars   map[string]any
}

func (c *Client) Gql(doc string) *Gql {
	return &Gql{client: c, doc: doc, vars: map[string]any{}}
}

func (g *Gql) String(name, value string) *Gql {
	g.vars[name] = value
	return g
}

func (g *Gql) Int(name string, value int) *Gql {
	g.vars[name] = value
	return g
}

// MaybeString inserts the variable only when value is non-nil. The key is
// omitted entirely when absent; the API treats an explicit null differently
// from a missing key in some mutations.
func (g *Gql) MaybeString(name string, value *string) *Gql {
	if value != nil {
		g.vars[name] = *value
	}
	return g
}

// Run serializes {query, variables}, POSTs it, and returns the raw response
// body. GraphQL-level errors are not interpreted here; decoders treat a
// missing expected field as a decode failure.
func (g *Gql) Run(ctx context.Context) (string, error) {
	payload, err := json.Marshal(gqlRequest{Query: g.doc, Variables: g.vars})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.client.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.client.token)

	sp := maybeStartSpinner(g.client.spinners)
	resp, err := g.client.http.Do(req)
	maybeStopSpinner(sp)
	if err != nil {
		return "", ErrNoResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			Status:       resp.StatusCode,
			URL:          g.client.apiURL,
			RequestBody:  string(payload),
			ResponseBody: string(body),
		}
	}
	return string(body), nil
}

func maybeStartSpinner(enabled bool) *spinner.Spinner {
	if !enabled || os.Getenv("DISABLE_SPINNER") != "" {
		return nil
	}
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " Querying API"
	sp.Start()
	return sp
}

func maybeStopSpinner(sp *spinner.Spinner) {
	if sp != nil {
		sp.Stop()
	}
}
