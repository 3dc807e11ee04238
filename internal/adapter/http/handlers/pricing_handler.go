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

var errInvalidPricingPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid pricing payload: rfpId is required", http.StatusBadRequest)

// PricingHandler serves standalone pricing.
type PricingHandler struct {
	usecase usecase.IPricingUseCase
}

func NewPricingHandler(uc usecase.IPricingUseCase) *PricingHandler {
	return &PricingHandler{usecase: uc}
}

// Price godoc
// @Summary      Price line items and tests against the ledger
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      request.PricingRequest  true  "RFP id, line items and test names"
// @Success      200      {object}  response.PriceBreakdownResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /pricing [post]
func (h *PricingHandler) Price(c *gin.Context) {
	var payload request.PricingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPricingPayload.HTTPStatus, errInvalidPricingPayload.ToHTTPError())
		return
	}
	items, err := payload.ToLineItems()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	breakdown, err := h.usecase.Price(c.Request.Context(), payload.RfpID, items, payload.TestNames)
	if err != nil {
		appErr := mapPricingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPriceBreakdown(breakdown))
}

func mapPricingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidRfpID), errors.Is(err, usecase.ErrInvalidLineItem):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrLedgerUnavailable):
		return pkg.NewDomainError("LEDGER_UNAVAILABLE", "Pricing ledger unavailable", err, http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrBreakdownInvariant):
		return pkg.NewDomainError("PRICING_INVARIANT", "Price breakdown failed verification", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
