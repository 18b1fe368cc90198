package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// TemplatesClient manages the stage template registry.
type TemplatesClient struct {
	client *Client
}

func (tc *TemplatesClient) List(ctx context.Context) ([]Template, error) {
	var out []Template
	_, err := tc.client.do(ctx, request{method: http.MethodGet, path: "/templates"}, &out)
	return out, err
}

// Add registers t.  Use AddDefault to let the server pick the id.
func (tc *TemplatesClient) Add(ctx context.Context, t Template) (*Template, error) {
	if t.ID == "" || t.Name == "" {
		return nil, errors.InvalidParam("template id and name are required")
	}
	var out Template
	if _, err := tc.client.do(ctx, request{method: http.MethodPost, path: "/templates", body: t}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddDefault appends a "New Patent Stage" template under the next free id.
func (tc *TemplatesClient) AddDefault(ctx context.Context) (*Template, error) {
	var out Template
	if _, err := tc.client.do(ctx, request{method: http.MethodPost, path: "/templates"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (tc *TemplatesClient) Update(ctx context.Context, id string, u TemplateUpdate) (*Template, error) {
	if id == "" {
		return nil, errors.InvalidParam("template id is required")
	}
	var out Template
	r := request{method: http.MethodPatch, path: "/templates/" + url.PathEscape(id), body: u}
	if _, err := tc.client.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (tc *TemplatesClient) Remove(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidParam("template id is required")
	}
	_, err := tc.client.do(ctx, request{method: http.MethodDelete, path: "/templates/" + url.PathEscape(id)}, nil)
	return err
}

//Personal.AI order the ending
