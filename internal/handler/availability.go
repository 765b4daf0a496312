package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/dto"
	"pharmatrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const availabilityCacheTTL = 2 * time.Minute

// AvailabilityHandler serves the counter-side availability check. Read-only,
// no side effects; cached briefly so repeated lookups during a rush don't
// hammer the database. The TTL is short because quantity changes on every
// settled sale.
type AvailabilityHandler struct {
	repo repository.MedicineRepository
	rdb  *redis.Client
}

func NewAvailabilityHandler(repo repository.MedicineRepository, rdb *redis.Client) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo, rdb: rdb}
}

// Check godoc
// @Summary Quick availability and price check for one medicine
// @Tags availability
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/availability/{id} [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid medicine ID"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "availability:" + id.String()

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.AvailabilityResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	m, err := h.repo.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Medicine not found"))
		return
	}

	resp := dto.AvailabilityResponse{
		Name:         m.Name,
		SellingPrice: m.SellingPrice,
		Quantity:     m.Quantity,
		StockStatus:  m.StockStatus(),
	}

	// Populate cache — best effort, ignore errors.
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, availabilityCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
