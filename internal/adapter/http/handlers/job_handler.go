package handlers

import (
	"errors"
	"net/http"

	request "rfp_automation/internal/adapter/http/dto/request"
	response "rfp_automation/internal/adapter/http/dto/response"
	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase"
	"rfp_automation/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidJobPayload     = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid job payload", http.StatusBadRequest)
	errInvalidApprovePayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid approval payload: approved is required", http.StatusBadRequest)
)

// JobHandler exposes the asynchronous RFP job lifecycle.
type JobHandler struct {
	usecase usecase.IPipelineUseCase
}

func NewJobHandler(uc usecase.IPipelineUseCase) *JobHandler {
	return &JobHandler{usecase: uc}
}

// SubmitJob godoc
// @Summary      Submit an RFP processing job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubmitJobRequest  false  "Source hints and overrides"
// @Success      202      {object}  response.SubmitJobResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /rfp/jobs [post]
func (h *JobHandler) SubmitJob(c *gin.Context) {
	var payload request.SubmitJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(errInvalidJobPayload.HTTPStatus, errInvalidJobPayload.ToHTTPError())
			return
		}
	}

	job, err := h.usecase.Submit(c.Request.Context(), payload.ToOptions())
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusAccepted, response.FromSubmittedJob(job))
}

// GetJobStatus godoc
// @Summary      Get the stage and status of a job
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.JobStatusResponse
// @Failure      404    {object}  pkg.HTTPError
// @Router       /rfp/jobs/{jobId}/status [get]
func (h *JobHandler) GetJobStatus(c *gin.Context) {
	job, err := h.usecase.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJobStatus(job))
}

// GetJobResult returns the final package of a completed job, or the current
// status while the job is not completed.
//
// @Summary      Get the result of a job
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.JobResultResponse
// @Failure      404    {object}  pkg.HTTPError
// @Router       /rfp/jobs/{jobId}/result [get]
func (h *JobHandler) GetJobResult(c *gin.Context) {
	job, err := h.usecase.Result(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if job.Status != entities.JobStatusCompleted || job.Result == nil {
		c.JSON(http.StatusOK, response.FromJobStatus(job))
		return
	}
	c.JSON(http.StatusOK, response.FromJobResult(job))
}

// ApproveJob godoc
// @Summary      Record the approval decision of a completed job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        jobId    path      string                  true  "Job ID"
// @Param        request  body      request.ApproveRequest  true  "Decision"
// @Success      200      {object}  response.JobStatusResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Router       /rfp/jobs/{jobId}/approve [post]
func (h *JobHandler) ApproveJob(c *gin.Context) {
	var payload request.ApproveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidApprovePayload.HTTPStatus, errInvalidApprovePayload.ToHTTPError())
		return
	}

	job, err := h.usecase.Approve(c.Request.Context(), c.Param("jobId"), *payload.Approved, payload.ResolveComments())
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJobStatus(job))
}

// CancelJob godoc
// @Summary      Cancel a job at its next stage boundary
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      202    {object}  response.JobStatusResponse
// @Failure      404    {object}  pkg.HTTPError
// @Failure      409    {object}  pkg.HTTPError
// @Router       /rfp/jobs/{jobId}/cancel [post]
func (h *JobHandler) CancelJob(c *gin.Context) {
	job, err := h.usecase.Cancel(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusAccepted, response.FromJobStatus(job))
}

func mapJobError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidJobID), errors.Is(err, usecase.ErrInvalidTopK), errors.Is(err, usecase.ErrInvalidOverrides):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrDoubleApproval):
		return pkg.NewDomainErrorSimple("DOUBLE_APPROVAL", "Job has already been approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrJobNotCompleted):
		return pkg.NewDomainErrorSimple("JOB_NOT_COMPLETED", "Job is not completed", http.StatusConflict)
	case errors.Is(err, usecase.ErrJobNotCancellable):
		return pkg.NewDomainErrorSimple("JOB_NOT_CANCELLABLE", "Job already finished", http.StatusConflict)
	case errors.Is(err, usecase.ErrQueueFull), errors.Is(err, usecase.ErrPipelineClosed):
		return pkg.NewDomainError("QUEUE_FULL", "Pipeline is not accepting jobs, retry later", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrPackagingFailed):
		return pkg.NewDomainError("PACKAGING_FAILED", "Response package could not be written", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
