package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/imaging"
	"github.com/stockrakh/stockrakh/internal/services"
	"github.com/stockrakh/stockrakh/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService issues, verifies and revokes sessions.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Verify(ctx context.Context, token string) (services.Identity, bool)
	Logout(ctx context.Context, token string) error
}

// QueryService serves the read views.
type QueryService interface {
	SearchParts(ctx context.Context, q string, page, limit int) (*services.PartPage, error)
	OutOfStock(ctx context.Context, q services.OutOfStockQuery) (*services.OutOfStockPage, error)
	DashboardStats(ctx context.Context, activityPage, activityLimit int) (*services.DashboardStats, error)
	CheckPartNumber(ctx context.Context, number, excludeID string) (*services.PartNumberCheck, error)
	GetPart(ctx context.Context, id string) (*domain.Part, error)
}

// PartService applies part mutations.
type PartService interface {
	CreateIdempotent(ctx context.Context, userID, key string, in services.PartInput) (*domain.Part, bool, error)
	Update(ctx context.Context, id string, in services.PartInput) (*services.MutationResult, error)
	Delete(ctx context.Context, id string) (*services.MutationResult, error)
}

// OrderSheetService builds supplier order sheets.
type OrderSheetService interface {
	Build(ctx context.Context, ids []string) (*services.OrderSheet, error)
}

// ImageStore persists uploaded images.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// listETagger is implemented by query services that can fingerprint the part
// list for conditional GETs.
type listETagger interface {
	ListETag(ctx context.Context, page, limit int) (string, error)
}

//
// Handler wiring
//

// Options carries transport settings for the handlers.
type Options struct {
	CookieName     string
	CookieSecure   bool
	UploadMaxBytes int64
	Imaging        imaging.Options
}

// Handlers groups every HTTP endpoint of the API.
type Handlers struct {
	auth   AuthService
	query  QueryService
	parts  PartService
	sheets OrderSheetService
	images ImageStore
	opts   Options

	// renderers are swappable for tests.
	renderText func(io.Writer, *services.OrderSheet) error
	renderPDF  func(*services.OrderSheet) ([]byte, error)
}

// New constructs Handlers. Zero options fall back to defaults.
func New(auth AuthService, query QueryService, parts PartService, sheets OrderSheetService, images ImageStore, opts Options) *Handlers {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = 10 << 20
	}
	if opts.Imaging.MaxDimension <= 0 {
		opts.Imaging = imaging.DefaultOptions()
	}
	return &Handlers{
		auth:       auth,
		query:      query,
		parts:      parts,
		sheets:     sheets,
		images:     images,
		opts:       opts,
		renderText: services.RenderText,
		renderPDF:  services.RenderPDF,
	}
}

// paging reads page and limit query params. Missing or non-numeric values
// become 0, which the services replace with their defaults.
func paging(c *gin.Context) (page, limit int) {
	return utils.AtoiDefault(c.Query("page"), 0), utils.AtoiDefault(c.Query("limit"), 0)
}
