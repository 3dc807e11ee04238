package routes

import (
	"rfp_automation/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathJobs    = "/rfp/jobs"
	PathMatch   = "/match"
	PathCatalog = "/catalog"
	PathPricing = "/pricing"
)

func addRfpRoutes(rg *gin.RouterGroup, jobHandler *handlers.JobHandler, matchHandler *handlers.MatchHandler, pricingHandler *handlers.PricingHandler) {
	jobs := rg.Group(PathJobs)
	{
		jobs.POST("", jobHandler.SubmitJob)
		jobs.GET("/:jobId/status", jobHandler.GetJobStatus)
		jobs.GET("/:jobId/result", jobHandler.GetJobResult)
		jobs.POST("/:jobId/approve", jobHandler.ApproveJob)
		jobs.POST("/:jobId/cancel", jobHandler.CancelJob)
	}

	rg.POST(PathMatch, matchHandler.Match)
	rg.GET(PathCatalog, matchHandler.ListCatalog)
	rg.POST(PathPricing, pricingHandler.Price)
}
