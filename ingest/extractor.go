package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"iter"
	"slices"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/nwbvt/congressbot/index"
	"go.uber.org/zap"
)

var ErrSelectorNoMatch = errors.New("selector matched nothing")

// NodeError is a failure confined to one node of the tree. The walk goes on
// with the node's siblings.
type NodeError struct {
	URL string
	Err error
}

func (e *NodeError) Error() string { return fmt.Sprintf("%s: %v", e.URL, e.Err) }

func (e *NodeError) Unwrap() error { return e.Err }

// Selectors are XPath expressions evaluated against the document element of
// each XML file.
type Selectors struct {
	Body     string            `yaml:"body"`
	ID       string            `yaml:"id"`
	Metadata map[string]string `yaml:"metadata"`
}

type metadataExpr struct {
	key  string
	expr *xpath.Expr
}

type Extractor struct {
	source    Source
	selectors Selectors
	body      *xpath.Expr
	id        *xpath.Expr
	metadata  []metadataExpr
}

// NewExtractor compiles selectors. An invalid expression is a configuration
// error.
func NewExtractor(source Source, selectors Selectors) (*Extractor, error) {
	e := &Extractor{source: source, selectors: selectors}

	var err error
	if e.body, err = compile("body", selectors.Body); err != nil {
		return nil, err
	}
	if e.id, err = compile("id", selectors.ID); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(selectors.Metadata))
	for key := range selectors.Metadata {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		expr, err := compile("metadata "+key, selectors.Metadata[key])
		if err != nil {
			return nil, err
		}
		e.metadata = append(e.metadata, metadataExpr{key: key, expr: expr})
	}
	return e, nil
}

func compile(name, expr string) (*xpath.Expr, error) {
	if expr == "" {
		return nil, fmt.Errorf("%s selector is empty", name)
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%s selector %q: %w", name, expr, err)
	}
	return compiled, nil
}

// Documents lazily walks the tree below rootURL depth first, yielding one
// document per XML file in listing order. Node failures are yielded as
// *NodeError and the walk continues; any other error ends the sequence.
func (e *Extractor) Documents(ctx context.Context, rootURL string) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		stack := []Entry{{Link: rootURL, Folder: true}}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				yield(index.Document{}, err)
				return
			}

			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if entry.Folder {
				logger.Info("Loading from", zap.String("url", entry.Link))
				children, err := e.source.List(ctx, entry.Link)
				if err != nil {
					if ctx.Err() != nil {
						yield(index.Document{}, ctx.Err())
						return
					}
					logger.Error("Error getting documents", zap.String("url", entry.Link), zap.Error(err))
					if !yield(index.Document{}, &NodeError{URL: entry.Link, Err: err}) {
						return
					}
					continue
				}
				for i := len(children) - 1; i >= 0; i-- {
					stack = append(stack, children[i])
				}
				continue
			}

			if entry.MimeType != xmlMimeType {
				continue
			}

			doc, err := e.extract(ctx, entry.Link)
			var nodeErr *NodeError
			switch {
			case err == nil:
				if !yield(doc, nil) {
					return
				}
			case errors.As(err, &nodeErr) && ctx.Err() == nil:
				logger.Error("Error loading document", zap.String("url", entry.Link), zap.Error(err))
				if !yield(index.Document{}, err) {
					return
				}
			default:
				if ctx.Err() != nil {
					err = ctx.Err()
				}
				yield(index.Document{}, err)
				return
			}
		}
	}
}

func (e *Extractor) extract(ctx context.Context, url string) (index.Document, error) {
	data, err := e.source.Fetch(ctx, url)
	if err != nil {
		return index.Document{}, &NodeError{URL: url, Err: err}
	}

	parsed, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return index.Document{}, &NodeError{URL: url, Err: fmt.Errorf("parse xml: %w", err)}
	}
	root := documentElement(parsed)
	if root == nil {
		return index.Document{}, &NodeError{URL: url, Err: errors.New("xml has no document element")}
	}

	id, err := firstText(root, e.id, e.selectors.ID, url)
	if err != nil {
		return index.Document{}, err
	}

	var body strings.Builder
	for _, part := range xmlquery.QuerySelectorAll(root, e.body) {
		body.WriteString(html.EscapeString(part.InnerText()))
	}

	metadata := make(map[string]string, len(e.metadata))
	for _, m := range e.metadata {
		value, err := firstText(root, m.expr, e.selectors.Metadata[m.key], url)
		if err != nil {
			return index.Document{}, err
		}
		metadata[m.key] = value
	}

	return index.Document{ID: id, Body: body.String(), Metadata: metadata}, nil
}

func firstText(root *xmlquery.Node, expr *xpath.Expr, raw, url string) (string, error) {
	node := xmlquery.QuerySelector(root, expr)
	if node == nil {
		return "", fmt.Errorf("%w: %q in %s", ErrSelectorNoMatch, raw, url)
	}
	return strings.TrimSpace(node.InnerText()), nil
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}
