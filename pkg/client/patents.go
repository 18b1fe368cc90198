package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// PatentsClient creates, edits and deletes tracked patents.
type PatentsClient struct {
	client *Client
}

func (pc *PatentsClient) List(ctx context.Context, opts *ListPatentsOptions) (*PatentList, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Query != "" {
			q.Set("q", opts.Query)
		}
		if opts.Category != "" {
			q.Set("category", opts.Category)
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var out PatentList
	if _, err := pc.client.do(ctx, request{method: http.MethodGet, path: "/patents", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PatentsClient) Create(ctx context.Context, req *CreatePatentRequest) (*Patent, error) {
	if req == nil {
		return nil, errors.InvalidParam("create request is required")
	}
	var out Patent
	if _, err := pc.client.do(ctx, request{method: http.MethodPost, path: "/patents", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PatentsClient) Get(ctx context.Context, id string) (*Patent, error) {
	if id == "" {
		return nil, errors.InvalidParam("patent id is required")
	}
	var out Patent
	if _, err := pc.client.do(ctx, request{method: http.MethodGet, path: "/patents/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStage applies u to one stage.  A positive expectedVersion is sent as
// If-Match; a stale version fails with an APIError for which IsConflict
// holds.
func (pc *PatentsClient) UpdateStage(ctx context.Context, patentID, stageID string, u StageUpdate, expectedVersion int64) (*Patent, error) {
	if patentID == "" || stageID == "" {
		return nil, errors.InvalidParam("patent id and stage id are required")
	}
	r := request{
		method: http.MethodPatch,
		path:   "/patents/" + url.PathEscape(patentID) + "/stages/" + url.PathEscape(stageID),
		body:   u,
	}
	if expectedVersion > 0 {
		r.headers = map[string]string{"If-Match": strconv.Quote(strconv.FormatInt(expectedVersion, 10))}
	}
	var out Patent
	if _, err := pc.client.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PatentsClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidParam("patent id is required")
	}
	_, err := pc.client.do(ctx, request{method: http.MethodDelete, path: "/patents/" + url.PathEscape(id)}, nil)
	return err
}

//Personal.AI order the ending
