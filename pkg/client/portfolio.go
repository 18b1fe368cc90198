package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// PortfolioClient reads the portfolio-wide views.
type PortfolioClient struct {
	client *Client
}

func (pc *PortfolioClient) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if _, err := pc.client.do(ctx, request{method: http.MethodGet, path: "/portfolio/dashboard"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns completed stages, newest first.  limit <= 0 returns all.
func (pc *PortfolioClient) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	r := request{method: http.MethodGet, path: "/portfolio/history"}
	if limit > 0 {
		r.query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out []HistoryEntry
	_, err := pc.client.do(ctx, r, &out)
	return out, err
}

func (pc *PortfolioClient) Overdue(ctx context.Context) ([]OverdueStage, error) {
	var out []OverdueStage
	_, err := pc.client.do(ctx, request{method: http.MethodGet, path: "/portfolio/overdue"}, &out)
	return out, err
}

//Personal.AI order the ending
