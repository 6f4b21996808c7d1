package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/services"
)

// OrderSheetRequest selects the parts to reorder.
type OrderSheetRequest struct {
	IDs    []string `json:"ids"    binding:"required,min=1,max=500"`
	Format string   `json:"format" example:"txt" enums:"txt,pdf"`
}

// OrderSheet godoc
// @ID          orderSheet
// @Summary     Download a supplier order sheet
// @Description Groups the selected parts by supplier and returns a text or PDF attachment.
// @Tags        Parts
// @Accept      json
// @Produce     plain
// @Produce     application/pdf
// @Param       body  body  handlers.OrderSheetRequest  true  "Selection"
// @Success     200  {file}    file
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts/order-sheet [post]
func (h *Handlers) OrderSheet(c *gin.Context) {
	var req OrderSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids must be a non-empty list")
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = services.FormatText
	}
	if format != services.FormatText && format != services.FormatPDF {
		failService(c, services.ErrUnsupportedFormat, ErrCodeBadRequest)
		return
	}

	sheet, err := h.sheets.Build(c.Request.Context(), req.IDs)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}

	var (
		body        []byte
		contentType string
	)
	if format == services.FormatPDF {
		body, err = h.renderPDF(sheet)
		contentType = "application/pdf"
	} else {
		var buf bytes.Buffer
		err = h.renderText(&buf, sheet)
		body, contentType = buf.Bytes(), "text/plain; charset=utf-8"
	}
	if err != nil {
		internal(c, ErrCodeInternal, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+sheet.FileName(format)+`"`)
	c.Data(http.StatusOK, contentType, body)
}
