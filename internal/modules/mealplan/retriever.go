package mealplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakhihealth/sakhi-backend/internal/clients/openai"
	"github.com/sakhihealth/sakhi-backend/internal/clients/pinecone"
	"github.com/sakhihealth/sakhi-backend/internal/clients/rediscache"
	"github.com/sakhihealth/sakhi-backend/internal/domain"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

// Retriever returns scored guidance chunks for a query. Implementations
// return an empty slice, never nil, when nothing matches.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error)
}

// FormatContext joins retrieved documents into one text block. Pure
// text-joining; no side effects.
func FormatContext(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		text := strings.TrimSpace(d.Content)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

// PineconeRetriever embeds the query and runs dense similarity search over
// the knowledge namespace. Chunk text lives in match metadata.
type PineconeRetriever struct {
	log       *logger.Logger
	ai        openai.Client
	vec       pinecone.VectorStore
	cache     *rediscache.EmbeddingCache
	namespace string
}

func NewPineconeRetriever(log *logger.Logger, ai openai.Client, vec pinecone.VectorStore, cache *rediscache.EmbeddingCache, namespace string) (*PineconeRetriever, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	if vec == nil {
		return nil, fmt.Errorf("vector store required")
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = "knowledge"
	}
	return &PineconeRetriever{
		log:       log.With("service", "PineconeRetriever"),
		ai:        ai,
		vec:       vec,
		cache:     cache,
		namespace: namespace,
	}, nil
}

func (r *PineconeRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error) {
	query = strings.TrimSpace(query)
	if query == "" || topK <= 0 {
		return []domain.RetrievedDocument{}, nil
	}

	emb, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := r.vec.QueryMatches(ctx, r.namespace, emb, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	out := make([]domain.RetrievedDocument, 0, len(matches))
	for _, m := range matches {
		content := metadataText(m.Metadata)
		if content == "" {
			continue
		}
		out = append(out, domain.RetrievedDocument{
			Content:  content,
			Metadata: m.Metadata,
			Score:    m.Score,
		})
	}
	return out, nil
}

func (r *PineconeRetriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := r.cache.Get(ctx, query); ok {
		return vec, nil
	}
	embs, err := r.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embs) == 0 || len(embs[0]) == 0 {
		return nil, fmt.Errorf("empty embedding for query")
	}
	r.cache.Set(ctx, query, embs[0])
	return embs[0], nil
}

func metadataText(md map[string]any) string {
	for _, key := range []string{"text", "content", "chunk"} {
		if v, ok := md[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
