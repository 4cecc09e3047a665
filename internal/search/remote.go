package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/logging"
)

// Remote asks the backend service to find sources.
type Remote struct {
	base   string
	client *http.Client
	logger *zap.Logger
}

func NewRemote(base string, client *http.Client, logger *zap.Logger) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{
		base:   strings.TrimRight(base, "/"),
		client: client,
		logger: logging.OrNop(logger).Named("search.remote"),
	}
}

type remoteRequest struct {
	Query   string `json:"query"`
	EventID string `json:"event_id"`
}

func (r *Remote) Find(ctx context.Context, req Request) (feed.SourceGroups, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(remoteRequest{Query: req.Query, EventID: req.EventID})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+"/api/find-sources", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("find sources failed", zap.Int("status", resp.StatusCode), zap.String("event", req.EventID))
		return nil, fmt.Errorf("%w: HTTP error! status: %d", ErrFailed, resp.StatusCode)
	}

	out := feed.SourceGroups{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFailed, err)
	}
	return out, nil
}
