package fetch

import (
	"fmt"
	"regexp"
	"strings"
)

var docIDRe = regexp.MustCompile(`/d/([\w-]+)/`)

// DocCandidates rewrites a shared Google Docs edit link into the candidate
// URLs to try, in order: HTML export, embedded HTML export, text export,
// preview, and finally the original link. Links that do not look like a
// Google Doc are returned untouched.
func DocCandidates(url string) []string {
	m := docIDRe.FindStringSubmatch(url)
	if m == nil {
		return []string{url}
	}
	id := m[1]
	export := fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=html", id)
	return []string{
		export,
		export + "&embedded=true",
		fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", id),
		fmt.Sprintf("https://docs.google.com/document/d/%s/preview", id),
		url,
	}
}

// RequiresAuth reports whether the fetched document was redirected to the
// Google sign-in page, meaning the share link is not public.
func RequiresAuth(finalURL string) bool {
	return strings.Contains(finalURL, "accounts.google.com")
}
