package tools

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/congress"
	"github.com/nwbvt/congressbot/embed"
	"github.com/nwbvt/congressbot/index"
	"github.com/nwbvt/congressbot/ingest"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keywordEmbedder struct{}

func (keywordEmbedder) Embed(ctx context.Context, task embed.Task, inputs []string) <-chan async.Result[[][]float32] {
	return async.Go(func() ([][]float32, error) {
		out := make([][]float32, len(inputs))
		for i, in := range inputs {
			in = strings.ToLower(in)
			out[i] = []float32{float32(strings.Count(in, "road")), float32(strings.Count(in, "tax")), 0.1}
		}
		return out, nil
	})
}

func openStore(t *testing.T) *index.Store {
	t.Helper()
	store, err := index.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestQueryBillSummariesMissingCollection(t *testing.T) {
	tool := QueryBillSummariesTool(openStore(t), keywordEmbedder{}, "billsummaries")

	result, err := dispatch(t, tool, api.ToolCallFunctionArguments{"query": "roads"})
	require.NoError(t, err)
	assert.Equal(t, []SummaryResult{}, result)
}

func TestQueryBillSummariesOtherCollectionOnly(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	other, err := store.GetOrCreateCollection(ctx, "billstatus", keywordEmbedder{})
	require.NoError(t, err)
	require.NoError(t, other.Upsert(ctx, index.Document{ID: "x", Body: "Fund roads"}))

	result, err := dispatch(t, QueryBillSummariesTool(store, keywordEmbedder{}, "billsummaries"), api.ToolCallFunctionArguments{"query": "roads"})
	require.NoError(t, err)
	assert.Equal(t, []SummaryResult{}, result)
}

func TestQueryBillSummaries(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	c, err := store.GetOrCreateCollection(ctx, "billsummaries", keywordEmbedder{})
	require.NoError(t, err)
	require.NoError(t, c.Upsert(ctx,
		index.Document{ID: "id119hr1", Body: "Fund roads", Metadata: map[string]string{"congress": "119", "type": "hr", "number": "1"}},
		index.Document{ID: "id119s5", Body: "Cut taxes", Metadata: map[string]string{"congress": "119", "type": "s", "number": "5"}},
		index.Document{ID: "id118hr9", Body: "Repave roads", Metadata: map[string]string{"congress": "118", "type": "hr", "number": "9"}},
	))
	tool := QueryBillSummariesTool(store, keywordEmbedder{}, "billsummaries")

	result, err := dispatch(t, tool, api.ToolCallFunctionArguments{"query": "roads", "n": 1, "congress": 119})
	require.NoError(t, err)
	assert.Equal(t, []SummaryResult{{
		Summary:  "Fund roads",
		Metadata: map[string]string{"congress": "119", "type": "hr", "number": "1"},
		Endpoint: "/bill/119/hr/1",
	}}, result)

	result, err = dispatch(t, tool, api.ToolCallFunctionArguments{"query": "roads", "bill_type": "s"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "/bill/119/s/5", result.([]SummaryResult)[0].Endpoint)

	result, err = dispatch(t, tool, api.ToolCallFunctionArguments{"query": "roads"})
	require.NoError(t, err)
	assert.Len(t, result, 3)
}

func TestLoadBillSummariesTool(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	src := &stubSource{
		listings: map[string][]ingest.Entry{
			"https://bulk/BILLSUM/119": {{Link: "https://bulk/a.xml", MimeType: "application/xml"}},
		},
		files: map[string]string{
			"https://bulk/a.xml": `<BillSummaries><item congress="119" measure-type="hr" measure-number="1" measure-id="id119hr1"><summary><summary-text>Fund roads</summary-text></summary></item></BillSummaries>`,
		},
	}
	profile, err := ingest.LookupProfile(ingest.BillSummaries)
	require.NoError(t, err)
	loader := ingest.NewLoader(src, store, keywordEmbedder{}, "https://bulk")

	result, err := dispatch(t, LoadBillSummariesTool(loader, profile), api.ToolCallFunctionArguments{"congress": 119})
	require.NoError(t, err)
	assert.Equal(t, ingest.LoadStats{Documents: 1}, result)

	found, err := querySummaries(ctx, store, keywordEmbedder{}, profile.IndexCollection, "roads", 5, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/bill/119/hr/1", found[0].Endpoint)

	_, err = dispatch(t, LoadBillSummariesTool(loader, profile), api.ToolCallFunctionArguments{})
	assert.ErrorIs(t, err, agentboot.ErrInvalidArguments)
}

func TestAllTools(t *testing.T) {
	store := openStore(t)
	profile, err := ingest.LookupProfile(ingest.BillSummaries)
	require.NoError(t, err)

	deps := Dependencies{
		Congress: congress.NewClient("key"),
		Store:    store,
		Embedder: keywordEmbedder{},
		Profile:  profile,
	}
	registry, err := agentboot.NewToolRegistry(All(deps)...)
	require.NoError(t, err)
	assert.Len(t, registry.APITools(), 6)

	deps.Loader = ingest.NewLoader(ingest.NewHTTPSource(nil), store, keywordEmbedder{}, "")
	registry, err = agentboot.NewToolRegistry(All(deps)...)
	require.NoError(t, err)
	_, ok := registry.Lookup("load_bill_summaries")
	assert.True(t, ok)
}

type stubSource struct {
	listings map[string][]ingest.Entry
	files    map[string]string
}

func (s *stubSource) List(ctx context.Context, url string) ([]ingest.Entry, error) {
	entries, ok := s.listings[url]
	if !ok {
		return nil, &ingest.StatusError{URL: url, StatusCode: http.StatusNotFound}
	}
	return entries, nil
}

func (s *stubSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok := s.files[url]
	if !ok {
		return nil, &ingest.StatusError{URL: url, StatusCode: http.StatusNotFound}
	}
	return []byte(body), nil
}
