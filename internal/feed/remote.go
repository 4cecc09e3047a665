package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/logging"
)

// Defaults applied when the backend leaves a metric out or sends zero.
const (
	defaultReliability = 6.7
	defaultNeutrality  = 6.9
	defaultAccuracy    = 7.1

	metricReliability = 8.10
	metricNeutrality  = 9.1

	headlinesPerGroup = 5
)

var livePalette = []string{"#10b981", "#3b82f6", "#f59e0b", "#8b5cf6", "#f97316", "#ef4444"}

// Remote talks to the backend service.
type Remote struct {
	base   string
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewRemote(base string, client *http.Client, logger *zap.Logger) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{
		base:   strings.TrimRight(base, "/"),
		client: client,
		logger: logging.OrNop(logger).Named("feed.remote"),
		now:    time.Now,
	}
}

func (r *Remote) Mode() string { return ModeLive }

type clusterLabel struct {
	ClusterID         int    `json:"cluster_id"`
	GeneratedHeadline string `json:"generated_headline"`
}

type headline struct {
	Cluster  int    `json:"cluster"`
	SourceID string `json:"source_id"`
	Link     string `json:"link"`
	Metrics  struct {
		Reliability float64 `json:"reliability"`
		Accuracy    float64 `json:"accuracy"`
	} `json:"metrics"`
	Sentiment struct {
		Neutrality float64 `json:"neutrality"`
	} `json:"sentiment"`
}

type clusterResponse struct {
	ClusterLabels []clusterLabel `json:"cluster_labels"`
	Headlines     []headline     `json:"headlines"`
}

type resultEnvelope[T any] struct {
	Result T `json:"result"`
}

func (r *Remote) Events(ctx context.Context) ([]Event, error) {
	var data clusterResponse
	if err := r.do(ctx, "list events", http.MethodGet, "/events", nil, "", &data); err != nil {
		return nil, err
	}
	return clusterEvents(data, r.now().UTC()), nil
}

func (r *Remote) Event(ctx context.Context, id string) (Event, error) {
	events, err := r.Events(ctx)
	if err != nil {
		return Event{}, err
	}
	for _, ev := range events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return Event{}, ErrNotFound
}

func (r *Remote) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return Event{}, err
	}
	var out resultEnvelope[*Event]
	if err := r.do(ctx, "create event", http.MethodPost, "/events", bytes.NewReader(body), "application/json", &out); err != nil {
		return Event{}, err
	}
	if out.Result != nil {
		return *out.Result, nil
	}
	return ev, nil
}

func (r *Remote) Sources(ctx context.Context) ([]Source, error) {
	var out resultEnvelope[[]Source]
	if err := r.do(ctx, "list sources", http.MethodGet, "/sources", nil, "", &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return []Source{}, nil
	}
	return out.Result, nil
}

// AddSource posts the form as multipart data and re-fetches the list on
// success.
func (r *Remote) AddSource(ctx context.Context, in NewSource) ([]Source, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", in.Name},
		{"url", in.URL},
		{"description", in.Description},
		{"category", UserAddedCategory},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out resultEnvelope[json.RawMessage]
	if err := r.do(ctx, "add source", http.MethodPost, "/sources", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	if !truthy(out.Result) {
		r.logger.Warn("backend did not confirm new source", zap.String("name", in.Name))
	}
	return r.Sources(ctx)
}

func (r *Remote) DeleteSource(ctx context.Context, id string) error {
	return r.do(ctx, "delete source", http.MethodDelete, "/sources/"+url.PathEscape(id), nil, "", nil)
}

func (r *Remote) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, body)
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &BackendError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	r.logger.Debug("backend call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &BackendError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &BackendError{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// clusterEvents turns the clustered headline feed into events. Each group
// holds the first few headlines of the cluster.
func clusterEvents(data clusterResponse, now time.Time) []Event {
	byCluster := make(map[int][]headline)
	for _, h := range data.Headlines {
		byCluster[h.Cluster] = append(byCluster[h.Cluster], h)
	}

	events := make([]Event, 0, len(data.ClusterLabels))
	for i, cl := range data.ClusterLabels {
		hs := byCluster[cl.ClusterID]
		top := hs
		if len(top) > headlinesPerGroup {
			top = top[:headlinesPerGroup]
		}

		groups := SourceGroups{
			GroupReliability: make([]SourceScore, len(top)),
			GroupNeutrality:  make([]SourceScore, len(top)),
			GroupAccuracy:    make([]SourceScore, len(top)),
			GroupMetric:      make([]SourceScore, len(top)),
		}
		for j, h := range top {
			name := h.SourceID
			if name == "" {
				name = "Source " + strconv.Itoa(j+1)
			}
			link := h.Link
			if link == "" {
				link = "#"
			}
			score := func(v float64) SourceScore { return SourceScore{Name: name, Score: v, URL: link} }

			groups[GroupReliability][j] = score(or(h.Metrics.Reliability, defaultReliability))
			groups[GroupNeutrality][j] = score(or(h.Sentiment.Neutrality, defaultNeutrality))
			groups[GroupAccuracy][j] = score(or(h.Metrics.Accuracy, defaultAccuracy))
			groups[GroupMetric][j] = score((or(h.Metrics.Reliability, metricReliability) +
				or(h.Sentiment.Neutrality, metricNeutrality) + h.Metrics.Accuracy) / 3)
		}

		events = append(events, Event{
			ID:           strconv.Itoa(cl.ClusterID),
			Title:        cl.GeneratedHeadline,
			Description:  cl.GeneratedHeadline,
			Category:     "News",
			Color:        livePalette[i%len(livePalette)],
			Keywords:     []string{},
			SourcesCount: len(hs),
			ClusterSize:  len(hs),
			Sources:      groups,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return events
}

func or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
