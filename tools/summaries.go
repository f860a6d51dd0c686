package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/embed"
	"github.com/nwbvt/congressbot/index"
	"github.com/nwbvt/congressbot/ingest"
	"go.uber.org/zap"
)

const defaultSummaryResults = 10

// SummaryResult is one bill summary returned to the model.
type SummaryResult struct {
	Summary  string            `json:"summary"`
	Metadata map[string]string `json:"metadata"`
	// Endpoint is the congress.gov path of the summarized bill.
	Endpoint string `json:"endpoint"`
}

func QueryBillSummariesTool(store *index.Store, embedder embed.Embedder, collection string) agentboot.MCPTool {
	return agentboot.NewMCPToolBuilder("query_bill_summaries",
		"Searches summaries of bills for ones relevant to a query. Each result includes the endpoint for the bill.").
		StringParam("query", "what the bills should be about", true).
		IntParam("n", "the number of summaries to return", false).
		IntParam("congress", "only return bills from this congress", false).
		EnumParam("bill_type", "only return bills of this type", BillTypes, false).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			filters := map[string]string{}
			if args.Has("congress") {
				filters["congress"] = strconv.Itoa(args.Int("congress"))
			}
			if billType := args.String("bill_type"); billType != "" {
				filters["type"] = billType
			}
			return querySummaries(ctx, store, embedder, collection, args.String("query"), args.IntOr("n", defaultSummaryResults), filters)
		}).
		Build()
}

func querySummaries(ctx context.Context, store *index.Store, embedder embed.Embedder, collection, query string, n int, filters map[string]string) ([]SummaryResult, error) {
	c, err := store.GetCollection(ctx, collection, embedder)
	if errors.Is(err, index.ErrCollectionNotFound) {
		available, _ := store.Collections(ctx)
		logger.Error("Bill summary index not yet built, run the load command first",
			zap.String("collection", collection),
			zap.Strings("available", available))
		return []SummaryResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	results, err := c.Query(ctx, query, n, filters)
	if err != nil {
		return nil, err
	}
	return linq.Pipe2(
		linq.FromSlice(ctx, results),
		linq.Select(func(r index.Result) SummaryResult {
			return SummaryResult{
				Summary:  r.Body,
				Metadata: r.Metadata,
				Endpoint: fmt.Sprintf("/bill/%s/%s/%s", r.Metadata["congress"], r.Metadata["type"], r.Metadata["number"]),
			}
		}),
		linq.ToSlice[SummaryResult](),
	)
}

// LoadBillSummariesTool lets the model build or refresh the summary index.
func LoadBillSummariesTool(loader *ingest.Loader, profile ingest.Profile) agentboot.MCPTool {
	return agentboot.NewMCPToolBuilder("load_bill_summaries",
		"Loads the bill summaries of a congress from the govinfo bulk data service into the search index. This takes a while.").
		IntParam("congress", "the congress to load", true).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			return loader.Load(ctx, profile, args.Int("congress"))
		}).
		Build()
}
