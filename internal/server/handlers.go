package server

import (
	"context"
	"errors"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/bubble"
	"github.com/san-kum/metra/internal/export"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/search"
)

const maxFormMemory = 1 << 20

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": s.provider.Mode()})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.provider.Events(r.Context())
	if err != nil {
		s.fail(w, r, "list events", err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultBody{Result: events})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.provider.Event(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "get event", err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultBody{Result: ev})
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var ev feed.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}
	created, err := s.provider.CreateEvent(r.Context(), ev)
	if err != nil {
		s.fail(w, r, "create event", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resultBody{Result: created})
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.provider.Sources(r.Context())
	if err != nil {
		s.fail(w, r, "list sources", err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultBody{Result: sources})
}

// addSource accepts either a JSON body or a (multipart) form.
func (s *Server) addSource(w http.ResponseWriter, r *http.Request) {
	var in feed.NewSource
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid source body")
			return
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		in = formSource(r)
	default:
		if err := r.ParseForm(); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		in = formSource(r)
	}

	sources, err := s.provider.AddSource(r.Context(), in)
	if err != nil {
		s.fail(w, r, "add source", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resultBody{Result: sources})
}

func formSource(r *http.Request) feed.NewSource {
	return feed.NewSource{
		Name:        r.FormValue("name"),
		URL:         r.FormValue("url"),
		Description: r.FormValue("description"),
	}
}

func (s *Server) deleteSource(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.DeleteSource(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, "delete source", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// findSources mirrors the dashboard's find-more-sources route: a missing
// query is a 400 and any other failure, including a malformed body, a 500.
func (s *Server) findSources(w http.ResponseWriter, r *http.Request) {
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("find sources", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to find sources")
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	groups, err := s.finder.Find(r.Context(), req)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, groups)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		s.logger.Error("find sources", zap.String("event", req.EventID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to find sources")
	}
}

// layout mounts the current events on a fresh engine and returns the
// bubble positions, optionally after a number of physics steps.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	width, err := queryFloat(r, "width", s.opts.Width)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := queryFloat(r, "height", s.opts.Height)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	steps := 0
	if raw := r.URL.Query().Get("steps"); raw != "" {
		steps, err = strconv.Atoi(raw)
	}
	if err != nil || steps < 0 || steps > maxLayoutSteps {
		s.writeError(w, http.StatusBadRequest, "steps must be between 0 and "+strconv.Itoa(maxLayoutSteps))
		return
	}

	events, err := s.provider.Events(r.Context())
	if err != nil {
		s.fail(w, r, "layout", err)
		return
	}
	items := feed.Items(events)
	engine := bubble.NewEngine(s.opts.Params)
	engine.Mount(items, width, height)

	frame := engine.Snapshot()
	if steps > 0 {
		res, err := bubble.NewRunner(engine).Run(r.Context(), bubble.RunConfig{Frames: steps})
		if err != nil {
			s.fail(w, r, "layout", err)
			return
		}
		frame = engine.Snapshot()
		s.logger.Debug("layout stepped", zap.Int("steps", res.StepsTaken), zap.Int("settled", res.Settled))
	}
	s.writeJSON(w, http.StatusOK, export.NewExportData("", items, []bubble.Frame{frame}, nil))
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, errors.New(key + " must be a positive number")
	}
	return v, nil
}

// fail maps provider errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, feed.ErrInvalidSource):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
	default:
		s.logger.Error(op, zap.String("path", r.URL.Path), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "backend unavailable")
	}
}
