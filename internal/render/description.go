package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

var descriptionPolicy = newDescriptionPolicy()

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowElements("p", "br", "div", "span")
	policy.AllowElements("strong", "b", "em", "i", "u")
	policy.AllowElements("ul", "ol", "li")
	policy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")

	policy.AllowAttrs("href").OnElements("a")
	policy.AllowRelativeURLs(true)
	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes("http", "https", "mailto")

	return policy
}

// Description turns a server-provided job description into markdown.
// Markup outside a small formatting allow-list is stripped first. Plain text
// is returned trimmed.
func Description(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "<") {
		return raw, nil
	}

	clean := descriptionPolicy.Sanitize(raw)
	md, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("convert description: %w", err)
	}

	return strings.TrimSpace(md), nil
}
