package options

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// HTTPSource fetches options from a JSON endpoint. The response (or the
// object at ResultsPath) must be an array of objects; LabelField and
// ValueField select dotted paths inside each item.
type HTTPSource struct {
	Client *http.Client
}

// NewHTTPSource uses http.DefaultClient when client is nil.
func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{Client: client}
}

// Fetch performs the request and maps the results.
func (s *HTTPSource) Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error) {
	reqURL, err := url.Parse(desc.URL)
	if err != nil {
		return nil, fmt.Errorf("options: parse url: %w", err)
	}
	q := reqURL.Query()
	for k, v := range desc.Params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()

	method := strings.ToUpper(strings.TrimSpace(desc.Method))
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("options: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("options: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("options: unexpected status %d", resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("options: decode: %w", err)
	}
	return mapResults(extractResults(payload, desc.ResultsPath), desc), nil
}

func mapResults(items []any, desc model.OptionSource) []model.Option {
	labelField, valueField := desc.LabelField, desc.ValueField
	if valueField == "" {
		valueField = "value"
	}
	if labelField == "" {
		labelField = "label"
	}

	var out []model.Option
	for _, item := range items {
		var label, value string
		switch typed := item.(type) {
		case map[string]any:
			value = pickValue(typed, valueField)
			label = pickValue(typed, labelField)
		case string:
			value = typed
		default:
			continue
		}
		if value == "" {
			continue
		}
		if label == "" {
			label = value
		}
		out = append(out, model.Option{Label: label, Value: value})
	}
	return out
}

func extractResults(payload any, path string) []any {
	cur := payload
	if path != "" {
		for _, segment := range strings.Split(path, ".") {
			node, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = node[segment]
		}
	}
	items, _ := cur.([]any)
	return items
}

func pickValue(m map[string]any, path string) string {
	cur := any(m)
	for _, segment := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = node[segment]
	}
	if cur == nil {
		return ""
	}
	return fmt.Sprint(cur)
}
