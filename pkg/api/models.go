package api

// ComponentsRequest is the JSON body for POST /api/v1/components.
type ComponentsRequest struct {
	Threshold *float64    `json:"threshold"`
	Points    [][]float64 `json:"points"` // [[x, y], ...]
	// IncludeMembers returns the point indices of every component.
	IncludeMembers bool `json:"include_members,omitempty"`
}

// ComponentsResponse is the JSON response for a successful components query.
type ComponentsResponse struct {
	Sizes      []int      `json:"sizes"` // descending
	NumPoints  int        `json:"num_points"`
	NumEdges   int        `json:"num_edges"`
	Components [][]uint32 `json:"components,omitempty"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Requests        uint64 `json:"requests"`
	PointsProcessed uint64 `json:"points_processed"`
	MaxPoints       int    `json:"max_points"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
