package blogservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeContent strips script tags from user-supplied post content before
// it is validated and stored.
func sanitizeContent(content string) string {
	return scriptTagRX.ReplaceAllString(content, "")
}
