package fetcher

import "strings"

// Normalize guarantees the URL carries a scheme, defaulting to https. The
// check is case-insensitive; the input is otherwise returned verbatim.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}
