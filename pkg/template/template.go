// Package template implements the minimal token language used by the
// clinic's email templates: {{key}} placeholders and a single,
// non-nestable {{#if key}}...{{/if}} conditional block. Values must be
// pre-formatted strings; the renderer performs substitution only, no
// formatting or escaping.
package template

import "regexp"

var (
	conditionalRe = regexp.MustCompile(`(?s)\{\{#if\s+([a-zA-Z0-9_]+)\s*\}\}(.*?)\{\{/if\}\}`)
	placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)
)

// Render substitutes placeholders in body with values from data.
// Conditional blocks are resolved first: the inner text is kept only
// when the key's value is a non-empty string. Placeholders with no
// matching key are replaced with the empty string, never left as
// literal tokens.
func Render(body string, data map[string]string) string {
	out := conditionalRe.ReplaceAllStringFunc(body, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		if data[m[1]] == "" {
			return ""
		}
		return m[2]
	})

	return placeholderRe.ReplaceAllStringFunc(out, func(token string) string {
		m := placeholderRe.FindStringSubmatch(token)
		return data[m[1]]
	})
}

// Rendered holds the three strings produced for one email.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// RenderAll renders subject, HTML body and plain-text body against the
// same data record.
func RenderAll(subject, html, text string, data map[string]string) Rendered {
	return Rendered{
		Subject: Render(subject, data),
		HTML:    Render(html, data),
		Text:    Render(text, data),
	}
}
