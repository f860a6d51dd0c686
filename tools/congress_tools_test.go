package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/congress"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path  string
	query url.Values
}

func fakeCongress(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*congress.Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return congress.NewClient("key", congress.WithBaseURL(server.URL)), &requests
}

func dispatch(t *testing.T, tool agentboot.MCPTool, args api.ToolCallFunctionArguments) (any, error) {
	t.Helper()
	registry, err := agentboot.NewToolRegistry(tool)
	require.NoError(t, err)
	return registry.Dispatch(context.Background(), tool.Name(), args)
}

func TestCongressToolNames(t *testing.T) {
	client := congress.NewClient("key")
	registry, err := agentboot.NewToolRegistry(CongressTools(client)...)
	require.NoError(t, err)

	var names []string
	for _, tool := range registry.APITools() {
		names = append(names, tool.Function.Name)
	}
	assert.Equal(t, []string{"list_bills", "call_endpoint", "get_members", "get_bill", "get_bill_text"}, names)
}

func TestListBills(t *testing.T) {
	client, requests := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bills":[{"number":"1"},{"number":"2"}]}`))
	})

	result, err := dispatch(t, ListBillsTool(client), api.ToolCallFunctionArguments{"congress": float64(119), "fromDate": "2025-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.Len(t, result, 2)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/bill/119", req.path)
	assert.Equal(t, "0", req.query.Get("offset"))
	assert.Equal(t, "250", req.query.Get("limit"))
	assert.Equal(t, "2025-01-01T00:00:00Z", req.query.Get("fromDateTime"))
	assert.False(t, req.query.Has("toDateTime"))
}

func TestListBillsNotFoundIsEmpty(t *testing.T) {
	client, requests := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such congress"}`))
	})

	result, err := dispatch(t, ListBillsTool(client), api.ToolCallFunctionArguments{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, result)
	assert.Equal(t, "/bill", (*requests)[0].path)
	assert.Len(t, *requests, 1)
}

func TestCallEndpoint(t *testing.T) {
	client, requests := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"member":{"name":"Someone"}}`))
	})

	result, err := dispatch(t, CallEndpointTool(client), api.ToolCallFunctionArguments{
		"endpoint": "/member/A000001",
		"params":   map[string]any{"format": "json", "limit": float64(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"member": map[string]any{"name": "Someone"}}, result)
	assert.Equal(t, "/member/A000001", (*requests)[0].path)
	assert.Equal(t, "5", (*requests)[0].query.Get("limit"))
}

func TestCallEndpointFailureIsAbsent(t *testing.T) {
	client, _ := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	result, err := dispatch(t, CallEndpointTool(client), api.ToolCallFunctionArguments{"endpoint": "bill"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGetMembersEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		args    api.ToolCallFunctionArguments
		path    string
		current string
	}{
		{"all", api.ToolCallFunctionArguments{}, "/member", "true"},
		{"congress", api.ToolCallFunctionArguments{"congress": 119}, "/member/congress/119", "true"},
		{"state district", api.ToolCallFunctionArguments{"state": "VA", "district": 8, "current": false}, "/member/VA/8", "false"},
		{"district without state", api.ToolCallFunctionArguments{"district": 8}, "/member", "true"},
		{"everything", api.ToolCallFunctionArguments{"congress": 118, "state": "CA", "district": 12}, "/member/congress/118/CA/12", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, requests := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"members":[{"name":"A"}]}`))
			})

			result, err := dispatch(t, GetMembersTool(client), tt.args)
			require.NoError(t, err)
			assert.Len(t, result, 1)
			assert.Equal(t, tt.path, (*requests)[0].path)
			assert.Equal(t, tt.current, (*requests)[0].query.Get("currentMember"))
		})
	}
}

func TestGetBill(t *testing.T) {
	client, requests := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bill":{"title":"Roads"}}`))
	})

	result, err := dispatch(t, GetBillTool(client), api.ToolCallFunctionArguments{"congress": 119, "billType": "hr", "billNumber": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bill": map[string]any{"title": "Roads"}}, result)
	assert.Equal(t, "/bill/119/hr/1", (*requests)[0].path)

	_, err = dispatch(t, GetBillTool(client), api.ToolCallFunctionArguments{"congress": 119, "billType": "bill", "billNumber": 1})
	assert.ErrorIs(t, err, agentboot.ErrInvalidArguments)
}

func TestGetBillText(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bill/119/hr/1/text":
			fmt.Fprintf(w, `{"textVersions":[
				{"date":"2025-01-03T05:00:00Z","type":"Introduced","formats":[{"type":"PDF","url":"%[1]s/ih.pdf"},{"type":"Formatted XML","url":"%[1]s/ih.xml"}]},
				{"date":"2025-03-10T04:00:00Z","type":"Engrossed","formats":[{"type":"Formatted XML","url":"%[1]s/eh.xml"}]},
				{"date":null,"type":"Enrolled","formats":[{"type":"Formatted XML","url":"%[1]s/enr.xml"}]}
			]}`, server.URL)
		case "/ih.xml":
			w.Write([]byte("<introduced/>"))
		case "/eh.xml":
			w.Write([]byte("<engrossed/>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	client := congress.NewClient("key", congress.WithBaseURL(server.URL))
	tool := GetBillTextTool(client)

	tests := []struct {
		name string
		asOf string
		want string
	}{
		{"latest dated", "", "<engrossed/>"},
		{"before engrossed", "2025-02-01", "<introduced/>"},
		{"slash format on the day", "2025/03/10", "<engrossed/>"},
		{"before any version", "2024-12-31", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := api.ToolCallFunctionArguments{"congress": 119, "billType": "hr", "billNumber": 1}
			if tt.asOf != "" {
				args["asOf"] = tt.asOf
			}
			result, err := dispatch(t, tool, args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestGetBillTextMissingFormat(t *testing.T) {
	client, _ := fakeCongress(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"textVersions":[{"date":"2025-01-03T05:00:00Z","formats":[{"type":"PDF","url":"x"}]}]}`))
	})

	result, err := dispatch(t, GetBillTextTool(client), api.ToolCallFunctionArguments{"congress": 119, "billType": "s", "billNumber": 2})
	require.NoError(t, err)
	assert.Equal(t, "", result)
}
