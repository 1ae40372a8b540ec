package template

import (
	"fmt"
	"regexp"
	"strings"
	texttemplate "text/template"
)

// Placeholders are Handlebars-style {{var}} references. They are rewritten
// to field accesses so text/template's strict missing-key mode applies.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Fill substitutes variables into tmpl. Rendering is strict: a reference to
// an unbound variable is an error, never a silent blank.
func Fill(tmpl string, variables map[string]string) (string, error) {
	rewritten := placeholderRe.ReplaceAllString(tmpl, `{{.$1}}`)

	parsed, err := texttemplate.New("issue").Option("missingkey=error").Parse(rewritten)
	if err != nil {
		return "", fmt.Errorf("could not register template: %w", err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, variables); err != nil {
		return "", fmt.Errorf("could not render template: %w", err)
	}
	return out.String(), nil
}
