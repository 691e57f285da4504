package expert

import "regexp"

// Rewritten queries chain per-crop questions with the literal "또는"
// (or), so it acts as a token separator alongside whitespace.
var (
	keywordSplitter  = regexp.MustCompile(`\s+|또는`)
	keywordSanitizer = regexp.MustCompile(`[^가-힣\w]`)
)

// ExtractKeywords tokenizes a rewritten query for keyword retrieval.
// Tokens are split on whitespace and "또는", stripped of anything that is
// not Hangul or a word character, and de-duplicated preserving order.
func ExtractKeywords(query string) []string {
	parts := keywordSplitter.Split(query, -1)

	seen := make(map[string]struct{})
	var keywords []string
	for _, part := range parts {
		kw := keywordSanitizer.ReplaceAllString(part, "")
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}
