// Part HTTP handlers.
//
//   - GET    /parts               (list, paginated, ETag support)
//   - GET    /parts/search        (substring search)
//   - GET    /parts/out-of-stock  (procurement view with supplier facet)
//   - GET    /parts/check-number  (advisory duplicate check)
//   - POST   /parts               (create, optional Idempotency-Key)
//   - GET    /parts/{id}
//   - PUT    /parts/{id}          (full replace)
//   - DELETE /parts/{id}
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/http/middleware"
	"github.com/stockrakh/stockrakh/internal/services"
)

// PartResponse wraps a single part.
type PartResponse struct {
	Part *domain.Part `json:"part"`
}

// decodePart reads a PartInput, rejecting unknown fields and trailing data.
func decodePart(c *gin.Context) (services.PartInput, bool) {
	var in services.PartInput
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		msg := "invalid JSON body"
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			msg = "request body too large"
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return in, false
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return in, false
	}
	return in, true
}

// ListParts godoc
// @ID          listParts
// @Summary     List parts (paginated)
// @Description Newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Parts
// @Produce     json
// @Param       page           query   int     false  "Page (1-based)"  minimum(1)
// @Param       limit          query   int     false  "Items per page"  minimum(1)  maximum(200)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  services.PartPage
// @Success     304  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts [get]
func (h *Handlers) ListParts(c *gin.Context) {
	ctx := c.Request.Context()
	page, limit := paging(c)

	// ETag pre-check (best effort).
	if et, isTagger := h.query.(listETagger); isTagger {
		if etag, err := et.ListETag(ctx, page, limit); err == nil {
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	res, err := h.query.SearchParts(ctx, "", page, limit)
	if err != nil {
		internal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// SearchParts godoc
// @ID          searchParts
// @Summary     Search parts
// @Description Case-insensitive substring match on name, number, code, brand, supplier, location and description. Blank q lists everything.
// @Tags        Parts
// @Produce     json
// @Param       q      query  string  false  "Search text"
// @Param       page   query  int     false  "Page (1-based)"
// @Param       limit  query  int     false  "Items per page"
// @Success     200  {object}  services.PartPage
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts/search [get]
func (h *Handlers) SearchParts(c *gin.Context) {
	page, limit := paging(c)
	res, err := h.query.SearchParts(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		internal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// OutOfStock godoc
// @ID          outOfStock
// @Summary     Out-of-stock parts
// @Description Parts with quantity 0, alphabetical. suppliers lists every supplier with out-of-stock parts.
// @Tags        Parts
// @Produce     json
// @Param       supplier  query  string  false  "Exact supplier, or all"
// @Param       search    query  string  false  "Name or number substring"
// @Param       page      query  int     false  "Page (1-based)"
// @Param       limit     query  int     false  "Items per page"
// @Success     200  {object}  services.OutOfStockPage
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts/out-of-stock [get]
func (h *Handlers) OutOfStock(c *gin.Context) {
	page, limit := paging(c)
	res, err := h.query.OutOfStock(c.Request.Context(), services.OutOfStockQuery{
		Page:     page,
		Limit:    limit,
		Supplier: c.Query("supplier"),
		Search:   c.Query("search"),
	})
	if err != nil {
		internal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// CheckPartNumber godoc
// @ID          checkPartNumber
// @Summary     Check whether a part number is taken
// @Tags        Parts
// @Produce     json
// @Param       partNumber  query  string  true   "Part number (exact)"
// @Param       excludeId   query  string  false  "Part being edited"
// @Success     200  {object}  services.PartNumberCheck
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /parts/check-number [get]
func (h *Handlers) CheckPartNumber(c *gin.Context) {
	res, err := h.query.CheckPartNumber(c.Request.Context(), c.Query("partNumber"), c.Query("excludeId"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, res)
}

// GetPart godoc
// @ID          getPart
// @Summary     Get a part
// @Tags        Parts
// @Produce     json
// @Param       id   path      string  true  "Part ID (uuid)"
// @Success     200  {object}  handlers.PartResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /parts/{id} [get]
func (h *Handlers) GetPart(c *gin.Context) {
	p, err := h.query.GetPart(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, PartResponse{Part: p})
}

// CreatePart godoc
// @ID          createPart
// @Summary     Create a part
// @Description A retry with the same Idempotency-Key returns the original part (200) instead of creating a duplicate.
// @Tags        Parts
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string               false  "Client retry key"
// @Param       body             body    services.PartInput   true   "Part"
// @Success     201  {object}  handlers.PartResponse
// @Success     200  {object}  handlers.PartResponse  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts [post]
func (h *Handlers) CreatePart(c *gin.Context) {
	in, valid := decodePart(c)
	if !valid {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)
	p, replayed, err := h.parts.CreateIdempotent(c.Request.Context(), middleware.UserID(c), key, in)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	if replayed {
		c.Header("Idempotent-Replayed", "true")
		ok(c, http.StatusOK, PartResponse{Part: p})
		return
	}
	ok(c, http.StatusCreated, PartResponse{Part: p})
}

// UpdatePart godoc
// @ID          updatePart
// @Summary     Replace a part
// @Description Full replacement. Images no longer referenced are deleted from the image host (best effort).
// @Tags        Parts
// @Accept      json
// @Produce     json
// @Param       id    path  string              true  "Part ID (uuid)"
// @Param       body  body  services.PartInput  true  "Part"
// @Success     200  {object}  services.MutationResult
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts/{id} [put]
func (h *Handlers) UpdatePart(c *gin.Context) {
	in, valid := decodePart(c)
	if !valid {
		return
	}
	res, err := h.parts.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		failService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// DeletePart godoc
// @ID          deletePart
// @Summary     Delete a part
// @Description Deletes every image of the part (best effort), then the part. Activity history is kept.
// @Tags        Parts
// @Produce     json
// @Param       id   path  string  true  "Part ID (uuid)"
// @Success     200  {object}  services.MutationResult
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /parts/{id} [delete]
func (h *Handlers) DeletePart(c *gin.Context) {
	res, err := h.parts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, res)
}
