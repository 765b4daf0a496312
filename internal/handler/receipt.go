package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/infra"
	"pharmatrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler serves the PDF receipt for a settled sale. The receipt
// worker may have already rendered the file when the sale carried a
// receipt_email; otherwise it is rendered on demand here.
type ReceiptHandler struct {
	sales        repository.SaleRepository
	pharmacyName string
	storagePath  string
}

func NewReceiptHandler(sales repository.SaleRepository, pharmacyName, storagePath string) *ReceiptHandler {
	return &ReceiptHandler{sales: sales, pharmacyName: pharmacyName, storagePath: storagePath}
}

// Download godoc
// @Summary Download the PDF receipt for a sale
// @Tags sales
// @Produce application/pdf
// @Param id path string true "Sale UUID"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id}/receipt [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}

	sale, err := h.sales.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sale not found"))
		return
	}

	path := filepath.Join(h.storagePath, "receipt_"+sale.ID.String()+".pdf")
	if _, statErr := os.Stat(path); statErr != nil {
		path, err = infra.GenerateReceiptPDF(sale, h.pharmacyName, h.storagePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Failed to render receipt"))
			return
		}
	}

	c.FileAttachment(path, filepath.Base(path))
}
