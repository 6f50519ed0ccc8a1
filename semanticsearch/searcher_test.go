package semanticsearch

import (
	"context"
	"os"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/refs"
)

func payloadOf(t *testing.T, fields map[string]any) map[string]*qdrant.Value {
	t.Helper()
	payload, err := qdrant.TryValueMap(fields)
	require.NoError(t, err)
	return payload
}

func TestPointsToRefsSkipsPointsMissingPathOrStartLine(t *testing.T) {
	points := []*qdrant.ScoredPoint{
		{
			Score: 0.8,
			Payload: payloadOf(t, map[string]any{
				"path":      "memory/notes.md",
				"startLine": 3,
				"endLine":   5,
				"preview":   "some preview text",
			}),
		},
		{
			Score: 0.6,
			Payload: payloadOf(t, map[string]any{
				"preview": "no path, must be dropped",
			}),
		},
		{
			Score: 0.4,
			Payload: payloadOf(t, map[string]any{
				"path":      "sessions/s1.jsonl",
				"startLine": 10,
				"sessionId": "s1",
			}),
		},
	}

	got := pointsToRefs(points)
	require.Len(t, got, 2)

	require.Equal(t, "memory/notes.md", got[0].Path)
	require.Equal(t, 3, got[0].StartLine)
	require.Equal(t, 5, got[0].EndLine)
	require.Equal(t, float64(float32(0.8)), got[0].Score)
	require.Equal(t, "some preview text", got[0].Preview)
	require.Equal(t, refs.SourceMemory, got[0].Source)

	require.Equal(t, "sessions/s1.jsonl", got[1].Path)
	require.Equal(t, 10, got[1].StartLine)
	require.Equal(t, 10, got[1].EndLine) // missing endLine falls back to startLine
	require.Equal(t, "s1", got[1].SessionID)
	require.Equal(t, refs.SourceSessions, got[1].Source)
}

func TestPointsToRefsHandlesNilPayload(t *testing.T) {
	got := pointsToRefs([]*qdrant.ScoredPoint{{Score: 0.1}})
	require.Empty(t, got)
}

// newTestSearcher builds a live Searcher against OpenAI embeddings and a
// Qdrant instance, skipping when the required environment variables are
// absent.
func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY environment variable not set")
	}
	qdrantHost := os.Getenv("QDRANT_HOST")
	if qdrantHost == "" {
		t.Skip("QDRANT_HOST environment variable not set")
	}

	client, err := qdrant.NewClient(&qdrant.Config{Host: qdrantHost, Port: 6334})
	require.NoError(t, err, "failed to create Qdrant client")

	searcher, err := New(&Config{
		APIKey:         apiKey,
		EmbeddingModel: "text-embedding-3-small",
		QdrantClient:   client,
		CollectionName: "refcore_test",
	})
	require.NoError(t, err)
	return searcher
}

func TestSearchAgainstLiveBackends(t *testing.T) {
	searcher := newTestSearcher(t)

	refsOut, err := searcher.Search(context.Background(), "how does the debounce scheduler work", 5)
	require.NoError(t, err)
	require.NotNil(t, refsOut)
}
