package expert

import "context"

// Passage is one retrieved unit of evidence. It lives only for the
// duration of a single pipeline invocation.
type Passage struct {
	Text       string
	Source     string
	Page       int
	Collection string
}

// PassageSearcher is the vector-store gateway: similarity search and
// keyword filtering over one collection, plus a readiness probe used at
// registration time.
type PassageSearcher interface {
	// SearchSimilar returns the topK nearest passages to the query vector
	// within the collection, ordered by cosine similarity.
	SearchSimilar(ctx context.Context, collection string, queryVector []float32, topK int) ([]Passage, error)

	// SearchKeywords returns up to limit passages whose text contains any
	// of the given keywords.
	SearchKeywords(ctx context.Context, collection string, keywords []string, limit int) ([]Passage, error)

	// CollectionReady reports whether the collection exists and is
	// queryable. Experts must not be registered against a collection that
	// fails this check.
	CollectionReady(ctx context.Context, collection string) error
}

// mergePassages combines vector and keyword hits, de-duplicating by
// exact passage text. The first-seen passage keeps its metadata.
func mergePassages(sets ...[]Passage) []Passage {
	seen := make(map[string]struct{})
	var merged []Passage
	for _, set := range sets {
		for _, p := range set {
			if _, ok := seen[p.Text]; ok {
				continue
			}
			seen[p.Text] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
