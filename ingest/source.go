// Package ingest walks the govinfo bulk data tree and turns its XML files
// into index documents.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultBulkURL = "https://www.govinfo.gov/bulkdata/json"
	xmlMimeType    = "application/xml"
)

// Entry is one item of a bulk data folder listing.
type Entry struct {
	Name     string `json:"justFileName"`
	Link     string `json:"link"`
	Folder   bool   `json:"folder"`
	MimeType string `json:"mimeType"`
}

type Source interface {
	List(ctx context.Context, url string) ([]Entry, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is a non-2xx answer from the bulk data service.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

type HTTPSource struct {
	client *http.Client
}

func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{client: client}
}

func (s *HTTPSource) List(ctx context.Context, url string) ([]Entry, error) {
	body, err := s.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}

	var listing struct {
		Files []Entry `json:"files"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", url, err)
	}
	return listing.Files, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	return s.get(ctx, url, "")
}

func (s *HTTPSource) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
