package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"threatboard/internal/layout"
	"threatboard/internal/logger"
	"threatboard/internal/pipeline"
	"threatboard/internal/snapshot"
	"threatboard/pkg/models"
)

const maxSnapshotBody = 16 << 20

// Deriver derives a dashboard from a raw payload for a layout region.
type Deriver interface {
	DeriveIn(payload []byte, region layout.Region) (*models.Dashboard, error)
	Region() layout.Region
}

// Server exposes dashboards to the presentation layer.
type Server struct {
	r        *chi.Mux
	latest   *pipeline.Latest
	deriver  Deriver
	gatherer prometheus.Gatherer
}

// NewServer wires the router. gatherer may be nil to skip /metrics.
func NewServer(latest *pipeline.Latest, deriver Deriver, gatherer prometheus.Gatherer) *Server {
	s := &Server{r: chi.NewRouter(), latest: latest, deriver: deriver, gatherer: gatherer}

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.Recoverer)
	s.r.Use(requestLog)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.getDashboard)
		r.Post("/derive", s.postDerive)
	})

	if s.gatherer != nil {
		s.r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	var d *models.Dashboard
	if s.latest != nil {
		d = s.latest.Load()
	}
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "no dashboard published yet")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) postDerive(w http.ResponseWriter, r *http.Request) {
	if s.deriver == nil {
		writeError(w, http.StatusServiceUnavailable, "derivation unavailable")
		return
	}

	region, err := regionFromQuery(r, s.deriver.Region())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("snapshot exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read snapshot body")
		return
	}

	d, err := s.deriver.DeriveIn(body, region)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotJSON) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Errorf("Derive request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "derivation failed")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func regionFromQuery(r *http.Request, def layout.Region) (layout.Region, error) {
	region := def
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"width", &region.Width}, {"height", &region.Height}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return def, fmt.Errorf("invalid %s: %q", f.name, raw)
		}
		*f.dst = v
	}
	return region, nil
}

// writeJSON encodes before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("Failed to encode response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debugf("%s %s %d %s req=%s", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
