package handlers

import (
	"errors"
	"net/http"
	"strconv"

	request "rfp_automation/internal/adapter/http/dto/request"
	response "rfp_automation/internal/adapter/http/dto/response"
	"rfp_automation/internal/usecase"
	"rfp_automation/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidMatchPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid match payload: query is required", http.StatusBadRequest)
	errInvalidPagination   = pkg.NewDomainErrorSimple("INVALID_REQUEST", "limit and offset must be non-negative integers", http.StatusBadRequest)
)

const defaultCatalogPageSize = 50

// MatchHandler serves standalone specification matching and catalog listing.
type MatchHandler struct {
	usecase usecase.ISpecMatchUseCase
}

func NewMatchHandler(uc usecase.ISpecMatchUseCase) *MatchHandler {
	return &MatchHandler{usecase: uc}
}

// Match godoc
// @Summary      Rank catalog entries against a requirement
// @Tags         matching
// @Accept       json
// @Produce      json
// @Param        request  body      request.MatchRequest  true  "Query and topK (default 3)"
// @Success      200      {object}  response.MatchResultResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /match [post]
func (h *MatchHandler) Match(c *gin.Context) {
	var payload request.MatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidMatchPayload.HTTPStatus, errInvalidMatchPayload.ToHTTPError())
		return
	}
	topK, err := payload.ResolveTopK()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	result, err := h.usecase.Match(c.Request.Context(), payload.ResolveQuery(), topK)
	if err != nil {
		appErr := mapMatchError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromMatchResult(result))
}

// ListCatalog godoc
// @Summary      List catalog entries
// @Tags         matching
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 50, 0 = all)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {object}  response.CatalogResponse
// @Failure      400     {object}  pkg.HTTPError
// @Router       /catalog [get]
func (h *MatchHandler) ListCatalog(c *gin.Context) {
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultCatalogPageSize)))
	offset, err2 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err1 != nil || err2 != nil || limit < 0 || offset < 0 {
		c.JSON(errInvalidPagination.HTTPStatus, errInvalidPagination.ToHTTPError())
		return
	}

	entries, total, err := h.usecase.ListCatalog(c.Request.Context(), limit, offset)
	if err != nil {
		appErr := mapMatchError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCatalog(entries, total, limit, offset))
}

func mapMatchError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery), errors.Is(err, usecase.ErrInvalidTopK), errors.Is(err, usecase.ErrInvalidPagination):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEmbeddingUnavailable), errors.Is(err, usecase.ErrCallTimeout):
		return pkg.NewDomainError("EMBEDDING_UNAVAILABLE", "Embedding service unavailable", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrCatalogUnavailable):
		return pkg.NewDomainError("CATALOG_UNAVAILABLE", "Catalog index unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
