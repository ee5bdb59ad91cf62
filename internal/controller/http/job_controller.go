package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/activation"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

const manualSweepKey = "manual:" + activation.SweepJobName

// JobController handles background job administration
type JobController struct {
	jobService     jobs.Service
	scheduler      *scheduler.Scheduler
	authMiddleware *middleware.AuthMiddleware
}

// NewJobController creates a new JobController instance. scheduler is nil
// in processes that do not run the cron scheduler.
func NewJobController(
	jobService jobs.Service,
	scheduler *scheduler.Scheduler,
	authMiddleware *middleware.AuthMiddleware,
) *JobController {
	return &JobController{
		jobService:     jobService,
		scheduler:      scheduler,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the job routes
func (c *JobController) RegisterRoutes(router *gin.RouterGroup) {
	jobRoutes := router.Group("/admin/jobs")
	jobRoutes.Use(c.authMiddleware.Authenticate(), c.authMiddleware.RequireAdmin())
	{
		jobRoutes.GET("/queues", c.GetQueueStats)
		jobRoutes.GET("/dead", c.GetDeadJobs)
		jobRoutes.POST("/dead/:id/retry", c.RetryDeadJob)
		jobRoutes.GET("/scheduled", c.GetScheduledJobs)
		jobRoutes.POST("/activation-sweep", c.TriggerActivationSweep)
		jobRoutes.GET("/:id", c.GetJob)
	}
}

// GetJob retrieves a job by ID
// @Summary Get job by ID
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.ApiResponse[response.JobResponse]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/admin/jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	job, err := c.jobService.GetJob(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, jobError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewJobResponse(job)))
}

// GetQueueStats returns queue statistics
// @Summary Get queue statistics
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[response.QueueStatsResponse]
// @Router /api/v1/admin/jobs/queues [get]
func (c *JobController) GetQueueStats(ctx *gin.Context) {
	stats, err := c.jobService.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, jobError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewQueueStatsResponse(stats)))
}

// GetDeadJobs lists jobs that exhausted their retries
// @Summary List dead-letter jobs
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum jobs returned" default(50)
// @Success 200 {object} response.ApiResponse[[]response.JobResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Router /api/v1/admin/jobs/dead [get]
func (c *JobController) GetDeadJobs(ctx *gin.Context) {
	var query request.DeadJobsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, err)
		return
	}

	dead, err := c.jobService.DeadJobs(ctx.Request.Context(), query.Limit)
	if err != nil {
		respondError(ctx, jobError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewJobResponses(dead)))
}

// RetryDeadJob moves a dead job back to its queue
// @Summary Retry a dead-letter job
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.ApiResponse[any]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/admin/jobs/dead/{id}/retry [post]
func (c *JobController) RetryDeadJob(ctx *gin.Context) {
	if err := c.jobService.RetryDead(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, jobError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess[any](nil, "Job requeued"))
}

// GetScheduledJobs returns the cron jobs known to this process
// @Summary Get scheduled jobs
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[[]scheduler.JobInfo]
// @Router /api/v1/admin/jobs/scheduled [get]
func (c *JobController) GetScheduledJobs(ctx *gin.Context) {
	if c.scheduler == nil {
		ctx.JSON(http.StatusOK, response.NewSuccessWithData([]scheduler.JobInfo{}))
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(c.scheduler.ListJobs()))
}

// TriggerActivationSweep queues an activation sweep ahead of its schedule
// @Summary Run the activation sweep now
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.ApiResponse[map[string]string]
// @Failure 409 {object} response.ApiResponse[any]
// @Router /api/v1/admin/jobs/activation-sweep [post]
func (c *JobController) TriggerActivationSweep(ctx *gin.Context) {
	id, err := c.jobService.Enqueue(ctx.Request.Context(), activation.JobTypeSweep, activation.SweepPayload{},
		jobs.WithPriority(jobs.PriorityHigh),
		jobs.WithUniqueKey(manualSweepKey),
		jobs.WithCorrelationID(middleware.GetRequestID(ctx)),
	)
	if err != nil {
		respondError(ctx, jobError(err))
		return
	}
	ctx.JSON(http.StatusAccepted, response.NewSuccess(map[string]string{"job_id": id}, "Activation sweep queued"))
}

func jobError(err error) error {
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		return apperrors.ErrNotFound.WithMessage("job not found")
	case errors.Is(err, jobs.ErrDuplicateJob):
		return apperrors.ErrConflict.WithMessage("an activation sweep is already queued")
	default:
		return err
	}
}
