package request

// SetActiveRequest enables or disables an account. Active is a pointer so
// an explicit false passes the required check.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
