package api

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDiagnosticLen = 200

// Diagnostic condenses an error response body into one log-friendly line.
// HTML error pages (reverse proxies, framework developer pages) are reduced to
// their title or first heading.
func Diagnostic(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if strings.Contains(contentType, "text/html") || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) ||
		bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")) {
		if text := htmlSummary(trimmed); text != "" {
			return truncate(text)
		}
	}

	return truncate(strings.Join(strings.Fields(string(trimmed)), " "))
}

func htmlSummary(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"title", "h1", "h2"} {
		text := strings.Join(strings.Fields(doc.Find(selector).First().Text()), " ")
		if text != "" {
			return text
		}
	}

	return ""
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDiagnosticLen {
		return s
	}
	return string(runes[:maxDiagnosticLen]) + "..."
}
