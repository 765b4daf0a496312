package handler

import (
	"net/http"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/dto"
	"pharmatrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MedicinesHandler struct{ svc service.MedicineService }

func NewMedicinesHandler(svc service.MedicineService) *MedicinesHandler {
	return &MedicinesHandler{svc: svc}
}

// Create godoc
// @Summary      Add a medicine to the catalog
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateMedicineRequest true "Medicine attributes"
// @Success      201  {object} dto.MedicineResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/medicines [post]
func (h *MedicinesHandler) Create(c *gin.Context) {
	var req dto.CreateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List medicines
// @Tags         medicines
// @Produce      json
// @Param        name        query string false "Name search (substring)"
// @Param        category_id query string false "Category UUID"
// @Param        low_stock   query bool   false "Only medicines at or below the label threshold"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 20)"
// @Success      200 {object} dto.MedicineListResponse
// @Router       /v1/medicines [get]
func (h *MedicinesHandler) List(c *gin.Context) {
	var filter dto.MedicineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list medicines"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, svcErr := h.svc.GetByID(c.Request.Context(), id)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Update(c.Request.Context(), id, req)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if svcErr := h.svc.Delete(c.Request.Context(), id); svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Apply a signed manual stock correction
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "Medicine UUID"
// @Param        body body dto.AdjustStockRequest true "Delta and reason"
// @Success      200  {object} dto.MedicineResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/medicines/{id}/stock [patch]
func (h *MedicinesHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.AdjustStock(c.Request.Context(), id, req)
	if svcErr != nil {
		writeServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}
