package checkout

// CompleteOrderRequest is the request for the complete-order service.
type CompleteOrderRequest struct {
	SessionID string `json:"session_id"`
	HandoffID string `json:"handoff_id,omitempty"`
}

// CompleteOrderResponse is the response for the complete-order service.
type CompleteOrderResponse struct {
	Completed  bool     `json:"completed"`
	Handoff    *Handoff `json:"handoff,omitempty"`
	LinesFreed int      `json:"lines_freed"`
	Error      string   `json:"error,omitempty"`
}

// ListHandoffsRequest is the request for the list-handoffs service.
type ListHandoffsRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// ListHandoffsResponse is the response for the list-handoffs service.
type ListHandoffsResponse struct {
	Handoffs []Handoff `json:"handoffs"`
	Total    int       `json:"total"`
}
