package request

// DeadJobsQuery pages through the dead-letter list
type DeadJobsQuery struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=500"`
}
