package handler

import (
	"net/http"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/dto"
	"pharmatrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// SettleSale godoc
// @Summary      Settle a multi-item sale
// @Description  Creates the sale with all its items and deducts stock atomically; any failed item aborts everything.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.SettleSaleRequest true "Sale items and payment mode"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) SettleSale(c *gin.Context) {
	var req dto.SettleSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SettleSale(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ReverseSale godoc
// @Summary      Reverse a sale
// @Description  Restores every item's stock, then deletes the sale and its items.
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) ReverseSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if svcErr := h.svc.ReverseSale(c.Request.Context(), id); svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, svcErr := h.svc.GetSale(c.Request.Context(), id)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns a paginated, filtered list of sales (default: today's).
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem POST /v1/sales/:id/items
func (h *SalesHandler) AddItem(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.AddSaleItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.CreateSaleItem(c.Request.Context(), saleID, req)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateItem PUT /v1/sales/:id/items/:item_id
func (h *SalesHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateSaleItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.UpdateSaleItemQuantity(c.Request.Context(), itemID, req.Quantity)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteItem DELETE /v1/sales/:id/items/:item_id — always restores stock.
func (h *SalesHandler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if svcErr := h.svc.DeleteSaleItem(c.Request.Context(), itemID); svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}
