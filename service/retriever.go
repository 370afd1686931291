package service

import (
	"context"
	"log"
	"sort"
	"strings"
)

const (
	DefaultRetrievalK         = 3
	DefaultFallbackCharBudget = 4000

	// maxParagraphsPerDocument bounds how much one document can contribute
	// to the keyword fallback context.
	maxParagraphsPerDocument = 2
)

// Retriever selects knowledge-base context for a question. The returned
// string is ready to paste into a prompt; empty means no usable context.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (string, error)
}

// VectorRetriever answers with the most similar index chunks, triggering a
// lazy index rebuild when needed.
type VectorRetriever struct {
	indexer *IndexService
	k       int
}

func NewVectorRetriever(indexer *IndexService, k int) *VectorRetriever {
	if k < 1 {
		k = DefaultRetrievalK
	}
	return &VectorRetriever{indexer: indexer, k: k}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, question string) (string, error) {
	results, err := r.indexer.Search(ctx, question, r.k)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.Chunk.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// KeywordRetriever scores document paragraphs by query-word overlap. It
// needs no embeddings, which makes it the degraded-mode fallback when the
// vector path is unavailable. It never fails; at worst it returns an empty
// context.
type KeywordRetriever struct {
	store      *DocumentStore
	charBudget int
}

func NewKeywordRetriever(store *DocumentStore, charBudget int) *KeywordRetriever {
	if charBudget < 1 {
		charBudget = DefaultFallbackCharBudget
	}
	return &KeywordRetriever{store: store, charBudget: charBudget}
}

func (r *KeywordRetriever) Retrieve(ctx context.Context, question string) (string, error) {
	records := r.store.Records()
	if len(records) == 0 {
		if _, err := r.store.LoadOrRefresh(ctx); err != nil {
			log.Printf("Warning: keyword retrieval without documents: %v", err)
			return "", nil
		}
		records = r.store.Records()
	}

	queryWords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(question)) {
		queryWords[word] = struct{}{}
	}
	if len(queryWords) == 0 {
		return "", nil
	}

	type scoredParagraph struct {
		score int
		text  string
	}

	var relevantParts []string
	for _, id := range r.store.IDs() {
		record, ok := records[id]
		if !ok {
			continue
		}

		var scored []scoredParagraph
		for _, paragraph := range strings.Split(record.Text, "\n\n") {
			lower := strings.ToLower(paragraph)
			score := 0
			for word := range queryWords {
				score += strings.Count(lower, word)
			}
			if score > 0 {
				scored = append(scored, scoredParagraph{score: score, text: paragraph})
			}
		}

		// Ties keep document order.
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})
		for i := 0; i < len(scored) && i < maxParagraphsPerDocument; i++ {
			relevantParts = append(relevantParts, scored[i].text)
		}
	}

	combined := strings.Join(relevantParts, "\n\n")
	runes := []rune(combined)
	if len(runes) > r.charBudget {
		combined = string(runes[:r.charBudget])
	}
	return combined, nil
}
