package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/time/rate"

	"github.com/stockrakh/stockrakh/internal/config"
)

// uploadAPI is the slice of the Cloudinary upload API the store calls.
// *uploader.API satisfies it; tests substitute a fake.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary stores images on Cloudinary under <root>/<folder>.
type Cloudinary struct {
	api     uploadAPI
	root    string
	limiter *rate.Limiter
}

// NewCloudinary builds a Cloudinary-backed Store from configuration.
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("imagestore: cloudinary: %w", err)
	}
	return newCloudinary(&cld.Upload, cfg.RootFolder, cfg.DestroyRPS), nil
}

func newCloudinary(api uploadAPI, root string, destroyRPS float64) *Cloudinary {
	lim := rate.NewLimiter(rate.Inf, 1)
	if destroyRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(destroyRPS), 1)
	}
	return &Cloudinary{api: api, root: strings.Trim(root, "/"), limiter: lim}
}

// Upload sends data to Cloudinary and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	params := uploader.UploadParams{
		Folder:       path.Join(c.root, folder),
		ResourceType: "image",
	}
	res, err := c.api.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("imagestore: cloudinary upload: %w", err)
	}
	if res == nil || res.Error.Message != "" {
		msg := "empty response"
		if res != nil {
			msg = res.Error.Message
		}
		return "", fmt.Errorf("imagestore: cloudinary upload: %s", msg)
	}
	if res.SecureURL == "" {
		return "", errors.New("imagestore: cloudinary upload returned no url")
	}
	return res.SecureURL, nil
}

// Delete destroys the asset behind rawURL. Destroy calls are paced by the
// configured rate.
func (c *Cloudinary) Delete(ctx context.Context, rawURL string) (bool, error) {
	id, ok := PublicID(rawURL)
	if !ok {
		return false, ErrForeignURL
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: id, ResourceType: "image"})
	if err != nil {
		return false, fmt.Errorf("imagestore: cloudinary destroy: %w", err)
	}
	if res == nil {
		return false, errors.New("imagestore: cloudinary destroy: empty response")
	}
	if res.Error.Message != "" {
		return false, fmt.Errorf("imagestore: cloudinary destroy: %s", res.Error.Message)
	}
	return res.Result == "ok", nil
}

var publicIDRE = regexp.MustCompile(`/upload/(?:v\d+/)?(.+)\.[^./]+$`)

// PublicID extracts the Cloudinary public id from a delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v123/stockrakh/inventory/abc.jpg
// yields "stockrakh/inventory/abc".
func PublicID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	m := publicIDRE.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}
