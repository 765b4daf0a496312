package handler

import (
	"net/http"
	"strconv"
	"time"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/dto"
	"pharmatrack/internal/repository"
	"pharmatrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ stock service.StockService }

func NewInventoryHandler(stock service.StockService) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

// ListMovements GET /v1/inventory/movements — the stock audit ledger.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filter := repository.StockMovementFilter{
		Type: c.Query("type"),
	}
	if raw := c.Query("medicine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid medicine_id"))
			return
		}
		filter.MedicineID = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	movements, total, err := h.stock.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock movements"))
		return
	}

	data := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		m := &movements[i]
		name := ""
		if m.Medicine != nil {
			name = m.Medicine.Name
		}
		var ref *string
		if m.ReferenceID != nil {
			v := m.ReferenceID.String()
			ref = &v
		}
		data = append(data, dto.StockMovementResponse{
			ID:             m.ID.String(),
			MedicineID:     m.MedicineID.String(),
			Medicine:       name,
			Type:           m.Type,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reason:         m.Reason,
			ReferenceID:    ref,
			CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}
