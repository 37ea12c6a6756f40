package handler

import (
	"context"
	"net/http"

	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/middleware"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/gin-gonic/gin"
)

// CatalogQuerier defines the read-side operations used by CatalogHandler.
type CatalogQuerier interface {
	MainNumbers(ctx context.Context) ([]models.Classification, error)
	Decades(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error)
	Units(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error)
	DecimalChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.ClassificationNode, error)
	DeeperChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.ClassificationNode, error)
	LeafChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error)
	Details(ctx context.Context, q cqrs.DetailsQuery) (*models.Classification, error)
	Related(ctx context.Context, q cqrs.RelatedQuery) ([]models.Classification, error)
	Search(ctx context.Context, q cqrs.SearchQuery) ([]models.Classification, error)
	Tables(ctx context.Context) ([]models.AuxTable, error)
	TableEntries(ctx context.Context, q cqrs.TableEntriesQuery) ([]models.AuxTableEntryView, error)
}

// CatalogHandler serves the read-only catalog browsing API.
type CatalogHandler struct {
	queries CatalogQuerier
}

func NewCatalogHandler(queries CatalogQuerier) *CatalogHandler {
	return &CatalogHandler{queries: queries}
}

// RegisterRoutes mounts every catalog route on r.
func (h *CatalogHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/main-dewey-numbers", h.MainNumbers)
	r.GET("/subcategories/:century", h.Subcategories)
	r.GET("/dewey-level1/:code", h.Level1)
	r.GET("/dewey-level2/:code", h.Level2)
	r.GET("/dewey-level3/:code", h.Level3)
	r.GET("/dewey-level4/:code", h.Level4)
	r.GET("/search", h.Search)
	r.GET("/dewey/details", h.Details)
	r.GET("/related-categories", h.Related)
	r.GET("/t-tables", h.Tables)
	r.GET("/t-tables/:tableNo/entries", h.TableEntries)
}

// ClassRequest carries a 3-digit class from the path.
type ClassRequest struct {
	Code string `uri:"code" validate:"required,deweyclass"`
}

type CenturyRequest struct {
	Century string `uri:"century" validate:"required,deweyclass"`
}

// CodeRequest carries any classification number from the path.
type CodeRequest struct {
	Code string `uri:"code" validate:"required,dewey"`
}

type DetailsRequest struct {
	DeweyNo string `form:"dewey_no" validate:"required,dewey"`
}

// RelatedRequest names the siblings either by base_number and level or by one
// member's dewey_no.
type RelatedRequest struct {
	BaseNumber string `form:"base_number" validate:"required_without=DeweyNo"`
	Level      int    `form:"level" validate:"omitempty,oneof=1 2"`
	DeweyNo    string `form:"dewey_no" validate:"omitempty,dewey"`
}

type SearchRequest struct {
	Query string `form:"query" validate:"required"`
	Type  string `form:"type" validate:"required"`
}

type TableEntriesRequest struct {
	TableNo string `uri:"tableNo" validate:"required,max=3"`
}

func (h *CatalogHandler) MainNumbers(c *gin.Context) {
	entries, err := h.queries.MainNumbers(c.Request.Context())
	respond(c, entries, err)
}

// Subcategories lists the decades of a century.
func (h *CatalogHandler) Subcategories(c *gin.Context) {
	var req CenturyRequest
	if !bindURI(c, &req) {
		return
	}
	entries, err := h.queries.Decades(c.Request.Context(), cqrs.ChildrenQuery{Code: req.Century})
	respond(c, entries, err)
}

// Level1 lists the units of a decade.
func (h *CatalogHandler) Level1(c *gin.Context) {
	var req ClassRequest
	if !bindURI(c, &req) {
		return
	}
	entries, err := h.queries.Units(c.Request.Context(), cqrs.ChildrenQuery{Code: req.Code})
	respond(c, entries, err)
}

// Level2 lists the first decimal level below a unit.
func (h *CatalogHandler) Level2(c *gin.Context) {
	var req ClassRequest
	if !bindURI(c, &req) {
		return
	}
	nodes, err := h.queries.DecimalChildren(c.Request.Context(), cqrs.ChildrenQuery{Code: req.Code})
	respond(c, nodes, err)
}

// Level3 lists the next decimal level below any code.
func (h *CatalogHandler) Level3(c *gin.Context) {
	var req CodeRequest
	if !bindURI(c, &req) {
		return
	}
	nodes, err := h.queries.DeeperChildren(c.Request.Context(), cqrs.ChildrenQuery{Code: req.Code})
	respond(c, nodes, err)
}

// Level4 lists everything below a code.
func (h *CatalogHandler) Level4(c *gin.Context) {
	var req CodeRequest
	if !bindURI(c, &req) {
		return
	}
	entries, err := h.queries.LeafChildren(c.Request.Context(), cqrs.ChildrenQuery{Code: req.Code})
	respond(c, entries, err)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !bindQuery(c, &req) {
		return
	}
	entries, err := h.queries.Search(c.Request.Context(), cqrs.SearchQuery{Term: req.Query, Field: req.Type})
	respond(c, entries, err)
}

func (h *CatalogHandler) Details(c *gin.Context) {
	var req DetailsRequest
	if !bindQuery(c, &req) {
		return
	}
	entry, err := h.queries.Details(c.Request.Context(), cqrs.DetailsQuery{Code: req.DeweyNo})
	respond(c, entry, err)
}

func (h *CatalogHandler) Related(c *gin.Context) {
	var req RelatedRequest
	if !bindQuery(c, &req) {
		return
	}
	entries, err := h.queries.Related(c.Request.Context(), cqrs.RelatedQuery{
		BaseNumber: req.BaseNumber,
		Level:      req.Level,
		Code:       req.DeweyNo,
	})
	respond(c, entries, err)
}

func (h *CatalogHandler) Tables(c *gin.Context) {
	tables, err := h.queries.Tables(c.Request.Context())
	respond(c, tables, err)
}

func (h *CatalogHandler) TableEntries(c *gin.Context) {
	var req TableEntriesRequest
	if !bindURI(c, &req) {
		return
	}
	entries, err := h.queries.TableEntries(c.Request.Context(), cqrs.TableEntriesQuery{TableNo: req.TableNo})
	respond(c, entries, err)
}

func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid path parameters")
		return false
	}
	return validated(c, req)
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return false
	}
	return validated(c, req)
}

func validated(c *gin.Context, req any) bool {
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

func respond(c *gin.Context, body any, err error) {
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}
