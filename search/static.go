package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// Doc is one entry in a Static datastore.
type Doc struct {
	Title   string
	URI     string
	Content string
}

// Static is an in-memory Backend for tests, examples and offline runs.
// Documents are grouped per datastore and matched by case-insensitive term
// containment: a document qualifies when any query term of three or more
// characters occurs in its title or content. Matches keep insertion order,
// so answers are deterministic for a fixed corpus.
type Static struct {
	mu   sync.RWMutex
	docs map[string][]Doc
}

var _ Backend = (*Static)(nil)

// NewStatic returns an empty Static backend.
func NewStatic() *Static {
	return &Static{docs: map[string][]Doc{}}
}

// Add appends documents to a datastore.
func (s *Static) Add(dataStoreID string, docs ...Doc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[dataStoreID] = append(s.docs[dataStoreID], docs...)
}

// Search assembles an answer from the matching documents. The answer text
// concatenates matched contents; one citation per document records its span.
// No match yields a success answer with empty text, mirroring a live backend
// that found nothing to say.
func (s *Static) Search(_ context.Context, q Query) (*Answer, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	terms := queryTerms(text)

	s.mu.RLock()
	docs := s.docs[q.DataStoreID]
	s.mu.RUnlock()

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	answer := &Answer{Status: StatusSuccess}
	var b strings.Builder
	for _, d := range docs {
		if len(answer.Citations) >= maxResults {
			break
		}
		haystack := strings.ToLower(d.Title + " " + d.Content)
		if !containsAnyTerm(haystack, terms) {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		start := b.Len()
		b.WriteString(d.Content)
		answer.Citations = append(answer.Citations, Citation{
			StartIndex: start,
			EndIndex:   b.Len(),
			URI:        d.URI,
			Title:      d.Title,
		})
	}
	answer.Text = b.String()

	return answer, nil
}

func queryTerms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func containsAnyTerm(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}
