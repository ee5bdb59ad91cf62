package response

// Health statuses
const (
	HealthUp   = "up"
	HealthDown = "down"
)

// HealthResponse reports process health and, for readiness, each dependency
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
