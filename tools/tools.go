package tools

import (
	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/congress"
	"github.com/nwbvt/congressbot/embed"
	"github.com/nwbvt/congressbot/index"
	"github.com/nwbvt/congressbot/ingest"
)

type Dependencies struct {
	Congress *congress.Client
	Store    *index.Store
	Embedder embed.Embedder
	Loader   *ingest.Loader
	Profile  ingest.Profile
}

// All returns every tool in the order they are offered to the model.
func All(deps Dependencies) []agentboot.MCPTool {
	tools := CongressTools(deps.Congress)
	tools = append(tools, QueryBillSummariesTool(deps.Store, deps.Embedder, deps.Profile.IndexCollection))
	if deps.Loader != nil {
		tools = append(tools, LoadBillSummariesTool(deps.Loader, deps.Profile))
	}
	return tools
}
