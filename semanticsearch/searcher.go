// Package semanticsearch implements the one concrete adapter for the
// out-of-scope SemanticSearcher capability: an OpenAI embedding call
// followed by a Qdrant similarity query.
package semanticsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/qdrant/go-client/qdrant"

	"github.com/vriveras/refcore/refs"
)

// Config configures a Searcher.
type Config struct {
	// APIKey authenticates against the OpenAI embeddings endpoint.
	APIKey string
	// EmbeddingModel names the embedding model to call, e.g.
	// "text-embedding-3-small".
	EmbeddingModel string
	// QdrantClient is the already-connected Qdrant client.
	QdrantClient *qdrant.Client
	// CollectionName is the Qdrant collection to query.
	CollectionName string
	// RequestOptions are extra openai-go request options (retry policy,
	// base URL override, …), appended after the API key option.
	RequestOptions []option.RequestOption
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return errors.New("semanticsearch: config cannot be nil")
	}
	if cfg.APIKey == "" {
		return errors.New("semanticsearch: apiKey is required")
	}
	if cfg.EmbeddingModel == "" {
		return errors.New("semanticsearch: embeddingModel is required")
	}
	if cfg.QdrantClient == nil {
		return errors.New("semanticsearch: qdrantClient is required")
	}
	if cfg.CollectionName == "" {
		return errors.New("semanticsearch: collectionName is required")
	}
	return nil
}

// Searcher implements retrieval.SemanticSearcher by embedding the query
// text with OpenAI and similarity-searching the result against Qdrant.
type Searcher struct {
	openai         *openai.Client
	embeddingModel string
	qdrant         *qdrant.Client
	collection     string
}

// New returns a Searcher ready to answer Search calls.
func New(cfg *Config) (*Searcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	options := append(append([]option.RequestOption{}, cfg.RequestOptions...), option.WithAPIKey(cfg.APIKey))
	client := openai.NewClient(options...)

	return &Searcher{
		openai:         &client,
		embeddingModel: cfg.EmbeddingModel,
		qdrant:         cfg.QdrantClient,
		collection:     cfg.CollectionName,
	}, nil
}

// Search embeds query and runs a top-maxResults similarity search against
// the configured Qdrant collection, mapping each scored point to a Ref.
// Each Ref takes its path, startLine and endLine from the point's payload
// (points without a path or startLine are skipped), along with its
// Source, Preview and Score.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]refs.Ref, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	vector, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semanticsearch: embed query: %w", err)
	}

	scored, err := s.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          ptrUint64(uint64(maxResults)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("semanticsearch: query collection %s: %w", s.collection, err)
	}

	return pointsToRefs(scored), nil
}

func (s *Searcher) embed(ctx context.Context, query string) ([]float32, error) {
	resp, err := s.openai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: s.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(query)},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("semanticsearch: embedding response had no data")
	}

	vec := resp.Data[0].Embedding
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out, nil
}

func ptrUint64(v uint64) *uint64 { return &v }
