package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/DurveshChavan/Medical-sub001/internal/application/service"
	"github.com/DurveshChavan/Medical-sub001/internal/presentation/http/dto/response"
)

// CatalogHandler handles medicine lookup endpoints
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Search handles GET /api/v1/medicines/search
func (h *CatalogHandler) Search(c *gin.Context) {
	results, err := h.catalogService.SearchMedicines(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicines retrieved", results)
}

// Get handles GET /api/v1/medicines/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	medicine, err := h.catalogService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved", medicine)
}

// Stock handles GET /api/v1/medicines/:id/stock
func (h *CatalogHandler) Stock(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	stock, err := h.catalogService.GetStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock retrieved", stock)
}
