// Package htmlsanitize strips unsafe HTML from user-generated content.
// Trainer bios accept limited formatting; everything else is removed
// before the value is stored.
package htmlsanitize

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize returns s with unsafe HTML removed. Safe formatting tags
// (paragraphs, emphasis, links, lists) are preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// SanitizeHTML is a convenience wrapper returning template.HTML for
// rendering already-sanitized content.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
