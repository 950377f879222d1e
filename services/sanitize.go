package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// policyEntities reverses the escaping the policy applies to plain text.
// "&lt;" and "&gt;" stay encoded so no markup survives.
var policyEntities = strings.NewReplacer("&#39;", "'", "&#34;", `"`, "&amp;", "&")

// Sanitize strips all markup from caller input. Entities are decoded before
// the policy runs, so encoded tags are stripped like literal ones, and
// plain text such as "O'Neil St" still matches what was stored.
func Sanitize(s string) string {
	return strings.TrimSpace(policyEntities.Replace(strictPolicy.Sanitize(html.UnescapeString(s))))
}
