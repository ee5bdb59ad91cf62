package request

// ApplicationListQuery filters the admin application listing
type ApplicationListQuery struct {
	Status string `form:"status" binding:"omitempty,application_status"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Size   int    `form:"size,default=20" binding:"min=1,max=100"`
}

// ApproveApplicationRequest carries optional reviewer notes
type ApproveApplicationRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// RejectApplicationRequest carries the rejection reason. Emptiness is
// checked by the lifecycle service so it reports the domain error.
type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}
