package audit

import "strings"

// stripFences removes optional markdown code fencing from a model response.
// Judgment models are instructed to return bare JSON but occasionally wrap
// it in ```json ... ``` anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncate bounds s to at most n characters, keeping the prefix.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
