// Package tools declares the tools the congress assistant offers its model.
package tools

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/congress"
	"go.uber.org/zap"
)

var BillTypes = []string{"hr", "s", "hjres", "sjres", "hconres", "sconres", "hres", "sres"}

const (
	defaultListLimit = 250
	billTextFormat   = "Formatted XML"
)

// CongressTools are the tools that call the congress.gov API directly.
func CongressTools(client *congress.Client) []agentboot.MCPTool {
	return []agentboot.MCPTool{
		ListBillsTool(client),
		CallEndpointTool(client),
		GetMembersTool(client),
		GetBillTool(client),
		GetBillTextTool(client),
	}
}

func ListBillsTool(client *congress.Client) agentboot.MCPTool {
	return agentboot.NewMCPToolBuilder("list_bills", "Lists bills being considered by Congress").
		IntParam("offset", "offset for the list of bills", false).
		IntParam("limit", "the number of bills to return", false).
		StringParam("fromDate", "the date of the earliest bills to return, leave blank for no restriction", false).
		StringParam("toDate", "the date of the latest bills to return, leave blank for no restriction", false).
		IntParam("congress", "the number of the congress to get bills from, leave blank for the current congress", false).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			endpoint := "bill"
			if args.Has("congress") {
				endpoint = fmt.Sprintf("bill/%d", args.Int("congress"))
			}
			params := map[string]string{
				"offset":       strconv.Itoa(args.IntOr("offset", 0)),
				"limit":        strconv.Itoa(args.IntOr("limit", defaultListLimit)),
				"fromDateTime": args.String("fromDate"),
				"toDateTime":   args.String("toDate"),
			}
			return field(ctx, client, endpoint, params, "bills")
		}).
		Build()
}

func CallEndpointTool(client *congress.Client) agentboot.MCPTool {
	return agentboot.NewMCPToolBuilder("call_endpoint", "call an endpoint on the congress API").
		StringParam("endpoint", fmt.Sprintf("The endpoint to access. Can be absolute or relative to %s", client.BaseURL()), true).
		ObjectParam("params", "optional query parameters for the request", false).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			params := make(map[string]string)
			for k, v := range args.Object("params") {
				params[k] = fmt.Sprint(v)
			}
			return body(ctx, client, args.String("endpoint"), params)
		}).
		Build()
}

func GetMembersTool(client *congress.Client) agentboot.MCPTool {
	return agentboot.NewMCPToolBuilder("get_members", "Gets a list of members of congress").
		IntParam("congress", "search by a specific congress", false).
		StringParam("state", "Two letter identifier for the state", false).
		IntParam("district", "The district number. Can only be specified if the state is also set", false).
		BoolParam("current", "Whether to only return current members", false).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			endpoint := "/member"
			if args.Has("congress") {
				endpoint += fmt.Sprintf("/congress/%d", args.Int("congress"))
			}
			if state := args.String("state"); state != "" {
				endpoint += "/" + state
				if args.Has("district") {
					endpoint += fmt.Sprintf("/%d", args.Int("district"))
				}
			}
			params := map[string]string{"currentMember": strconv.FormatBool(args.BoolOr("current", true))}
			return field(ctx, client, endpoint, params, "members")
		}).
		Build()
}

func GetBillTool(client *congress.Client) agentboot.MCPTool {
	return billParams(agentboot.NewMCPToolBuilder("get_bill", "Gets detailed information about a bill")).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			return body(ctx, client, billEndpoint(args), nil)
		}).
		Build()
}

func GetBillTextTool(client *congress.Client) agentboot.MCPTool {
	return billParams(agentboot.NewMCPToolBuilder("get_bill_text", "Gets the bill text")).
		StringParam("asOf", "set this to a date in YYYY-MM-DD format to get the text as it was on that date", false).
		WithHandler(func(ctx context.Context, args *agentboot.Args) (any, error) {
			return billText(ctx, client, billEndpoint(args)+"/text", args.String("asOf"))
		}).
		Build()
}

func billParams(b *agentboot.MCPToolBuilder) *agentboot.MCPToolBuilder {
	return b.
		IntParam("congress", "the number of the congress which considered the bill", true).
		EnumParam("billType", "the type of bill", BillTypes, true).
		IntParam("billNumber", "the bill number", true)
}

func billEndpoint(args *agentboot.Args) string {
	return fmt.Sprintf("/bill/%d/%s/%d", args.Int("congress"), args.String("billType"), args.Int("billNumber"))
}

// body returns the decoded response, or nil when the API does not answer 200.
func body(ctx context.Context, client *congress.Client, endpoint string, params map[string]string) (map[string]any, error) {
	status, resp, err := client.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	return resp, nil
}

// field returns one list from the response, or an empty list on failure.
func field(ctx context.Context, client *congress.Client, endpoint string, params map[string]string, key string) (any, error) {
	resp, err := body(ctx, client, endpoint, params)
	if err != nil {
		return nil, err
	}
	if list, ok := resp[key].([]any); ok {
		return list, nil
	}
	return []any{}, nil
}

type textVersion struct {
	date    time.Time
	dated   bool
	formats []any
}

// billText downloads the newest text version dated on or before asOf.
func billText(ctx context.Context, client *congress.Client, endpoint, asOf string) (string, error) {
	resp, err := body(ctx, client, endpoint, nil)
	if err != nil || resp == nil {
		return "", err
	}

	var cutoff time.Time
	if asOf != "" {
		cutoff, err = parseCutoff(asOf)
		if err != nil {
			return "", fmt.Errorf("asOf: %w", err)
		}
	}

	raw, _ := resp["textVersions"].([]any)
	versions := make([]textVersion, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		v := textVersion{}
		v.formats, _ = m["formats"].([]any)
		if s, ok := m["date"].(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				v.date, v.dated = t, true
			}
		}
		if !cutoff.IsZero() && (!v.dated || v.date.After(cutoff)) {
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		logger.Error("No text versions found", zap.String("endpoint", endpoint), zap.String("asOf", asOf))
		return "", nil
	}

	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].dated != versions[j].dated {
			return versions[i].dated
		}
		return versions[i].date.After(versions[j].date)
	})

	for _, f := range versions[0].formats {
		format, _ := f.(map[string]any)
		if format["type"] != billTextFormat {
			continue
		}
		link, _ := format["url"].(string)
		status, text, err := client.Download(ctx, link)
		if err != nil {
			return "", err
		}
		if status != http.StatusOK {
			return "", nil
		}
		return text, nil
	}

	logger.Error("Only found formats", zap.String("endpoint", endpoint), zap.Any("formats", versions[0].formats))
	return "", nil
}

// parseCutoff accepts YYYY-MM-DD, YYYY/MM/DD or RFC 3339. A bare date
// includes the whole day.
func parseCutoff(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, strings.ReplaceAll(s, "/", "-")); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Parse(time.RFC3339, s)
}
