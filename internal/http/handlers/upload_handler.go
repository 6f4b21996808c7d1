package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/imaging"
	"github.com/stockrakh/stockrakh/internal/utils"
)

// DefaultUploadFolder receives images uploaded without a folder.
const DefaultUploadFolder = "inventory"

// UploadResponse carries the hosted image URL.
type UploadResponse struct {
	URL string `json:"url" example:"https://res.cloudinary.com/demo/image/upload/v1/stockrakh/inventory/abc.jpg"`
}

// UploadImage godoc
// @ID          uploadImage
// @Summary     Upload an image
// @Description Accepts one image, downscales and recompresses JPEG/PNG, and stores it on the image host.
// @Tags        Upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       file    formData  file    true   "Image"
// @Param       folder  formData  string  false  "Target folder ([a-z0-9_-])"  default(inventory)
// @Success     200  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing, non-image or too-large file"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /upload/image [post]
func (h *Handlers) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no file uploaded")
		return
	}
	if fh.Size > h.opts.UploadMaxBytes {
		fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "file too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		internal(c, ErrCodeUploadFailed, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.opts.UploadMaxBytes+1))
	if err != nil {
		internal(c, ErrCodeUploadFailed, err)
		return
	}
	if int64(len(data)) > h.opts.UploadMaxBytes {
		fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "file too large")
		return
	}

	img, err := imaging.Compress(data, h.opts.Imaging)
	switch {
	case errors.Is(err, imaging.ErrNotImage):
		fail(c, http.StatusBadRequest, ErrCodeNotImage, "file must be an image")
		return
	case errors.Is(err, imaging.ErrTooLarge):
		fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "image too large")
		return
	case err != nil:
		// Corrupt image data that sniffs as an image.
		fail(c, http.StatusBadRequest, ErrCodeNotImage, "file could not be decoded")
		return
	}

	folder := utils.Slug(c.PostForm("folder"), DefaultUploadFolder)
	url, err := h.images.Upload(c.Request.Context(), img.Data, folder)
	if err != nil {
		internal(c, ErrCodeUploadFailed, err)
		return
	}
	ok(c, http.StatusOK, UploadResponse{URL: url})
}
