package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"sync/atomic"

	"proximity_components/pkg/cluster"
	"proximity_components/pkg/geo"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	clusterer    cluster.Clusterer
	maxBodyBytes int64
	maxPoints    int

	requests atomic.Uint64
	points   atomic.Uint64
}

// NewHandlers creates handlers with the given clusterer and request limits.
func NewHandlers(c cluster.Clusterer, maxBodyBytes int64, maxPoints int) *Handlers {
	return &Handlers{
		clusterer:    c,
		maxBodyBytes: maxBodyBytes,
		maxPoints:    maxPoints,
	}
}

// HandleComponents handles POST /api/v1/components.
func (h *Handlers) HandleComponents(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "", nil)
		return
	}

	var req ComponentsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "", nil)
		return
	}

	if req.Threshold == nil || !isFinite(*req.Threshold) {
		writeError(w, http.StatusBadRequest, "invalid_threshold", "threshold", nil)
		return
	}
	if h.maxPoints > 0 && len(req.Points) > h.maxPoints {
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_points", "points", nil)
		return
	}

	points := make([]geo.Point, len(req.Points))
	for i, xy := range req.Points {
		if len(xy) != 2 {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "points", &i)
			return
		}
		p := geo.Point{X: xy[0], Y: xy[1]}
		if !p.IsFinite() {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "points", &i)
			return
		}
		points[i] = p
	}

	result, err := h.clusterer.Cluster(r.Context(), cluster.Request{
		Points:    points,
		Threshold: *req.Threshold,
		Members:   req.IncludeMembers,
	})
	if err != nil {
		if errors.Is(err, cluster.ErrTooManyPoints) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_many_points", "points", nil)
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "", nil)
		return
	}

	h.requests.Add(1)
	h.points.Add(uint64(len(points)))
	if info := requestInfoFrom(r.Context()); info != nil {
		info.points = len(points)
		info.components = len(result.Sizes)
	}

	resp := ComponentsResponse{
		Sizes:      result.Sizes,
		NumPoints:  len(points),
		NumEdges:   result.NumEdges,
		Components: result.Components,
	}
	if resp.Sizes == nil {
		resp.Sizes = []int{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		Requests:        h.requests.Load(),
		PointsProcessed: h.points.Load(),
		MaxPoints:       h.maxPoints,
	})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func writeError(w http.ResponseWriter, status int, code, field string, index *int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field, Index: index})
}
