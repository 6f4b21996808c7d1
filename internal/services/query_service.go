// Package services – QueryService
//
// This file implements the read side of the inventory: paginated part
// listings, free-text search, the out-of-stock procurement view with its
// supplier facet, dashboard aggregates and the advisory part-number check.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// carry pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/config"
	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/repo"
	"github.com/stockrakh/stockrakh/internal/search"
)

// AllSuppliers is the out-of-stock filter value meaning "no supplier filter".
const AllSuppliers = "all"

// Pagination is the page metadata attached to every listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit), 0 when empty.
func NewPagination(page, limit int, total int64) Pagination {
	tp := 0
	if limit > 0 {
		tp = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: tp}
}

// PartPage is one page of parts.
type PartPage struct {
	Items      []domain.Part `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// OutOfStockQuery selects a page of the out-of-stock view.
type OutOfStockQuery struct {
	Page     int
	Limit    int
	Supplier string // exact match; empty or "all" disables the filter
	Search   string // substring of part name or number
}

// OutOfStockPage is one page of quantity-0 parts plus the supplier facet.
type OutOfStockPage struct {
	Items      []domain.Part `json:"items"`
	Suppliers  []string      `json:"suppliers"`
	Pagination Pagination    `json:"pagination"`
}

// ActivityPage is one page of the activity feed.
type ActivityPage struct {
	Data       []domain.Activity `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// DashboardStats aggregates the whole inventory.
type DashboardStats struct {
	TotalParts        int64        `json:"totalParts"`
	TotalValue        float64      `json:"totalValue"`
	TotalValueDisplay string       `json:"totalValueDisplay"`
	OutOfStockCount   int64        `json:"outOfStockCount"`
	Activities        ActivityPage `json:"activities"`
}

// PartSummary identifies a part without its full record.
type PartSummary struct {
	ID         string `json:"id"`
	PartName   string `json:"partName"`
	PartNumber string `json:"partNumber"`
}

// PartNumberCheck answers "is this part number already used?".
type PartNumberCheck struct {
	Exists bool         `json:"exists"`
	Part   *PartSummary `json:"part"`
}

// QueryService builds read views over parts and activities.
type QueryService struct {
	DB     *gorm.DB
	Limits config.PaginationConfig

	printer *message.Printer
}

// NewQueryService constructs a QueryService. Zero limits fall back to the
// built-in defaults.
func NewQueryService(db *gorm.DB, limits config.PaginationConfig) *QueryService {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = 20
	}
	if limits.OutOfStockLimit <= 0 {
		limits.OutOfStockLimit = 50
	}
	if limits.ActivityLimit <= 0 {
		limits.ActivityLimit = 10
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = 200
	}
	return &QueryService{
		DB:      db,
		Limits:  limits,
		printer: message.NewPrinter(language.MustParse("en-IN")),
	}
}

// normalize applies the paging policy: page < 1 becomes 1, limit <= 0
// becomes def, limit above the maximum is clamped and page is capped so the
// row offset cannot overflow.
func (s *QueryService) normalize(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if max := s.Limits.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	// Keeps (page-1)*limit well inside int range on every platform.
	if last := math.MaxInt32 / max(limit, 1); page > last {
		page = last
	}
	return page, limit
}

func (s *QueryService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/QueryService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// ListParts returns every part, newest first.
func (s *QueryService) ListParts(ctx context.Context, page, limit int) (*PartPage, error) {
	return s.SearchParts(ctx, "", page, limit)
}

// SearchParts matches q case-insensitively against the seven searchable
// fields. A blank q lists everything. Order is newest first in both cases.
func (s *QueryService) SearchParts(ctx context.Context, q string, page, limit int) (*PartPage, error) {
	page, limit = s.normalize(page, limit, s.Limits.DefaultLimit)
	ctx, span := s.span(ctx, "SearchParts",
		attribute.Bool("query.present", search.Normalize(q) != ""),
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	)
	defer span.End()

	f := repo.PartFilter{Query: q, Index: search.PartFields}
	total, err := repo.CountParts(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	items := []domain.Part{}
	if total > 0 {
		items, err = repo.ListPartsPage(ctx, s.DB, f, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
	}
	return &PartPage{Items: items, Pagination: NewPagination(page, limit, total)}, nil
}

// OutOfStock lists quantity-0 parts alphabetically. The supplier facet
// covers every out-of-stock part regardless of the current filters.
func (s *QueryService) OutOfStock(ctx context.Context, q OutOfStockQuery) (*OutOfStockPage, error) {
	page, limit := s.normalize(q.Page, q.Limit, s.Limits.OutOfStockLimit)
	ctx, span := s.span(ctx, "OutOfStock",
		attribute.String("supplier", q.Supplier),
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	)
	defer span.End()

	f := repo.PartFilter{OutOfStock: true, Query: q.Search, Index: search.NameOrNumber}
	if sup := strings.TrimSpace(q.Supplier); sup != "" && sup != AllSuppliers {
		f.Supplier = sup
	}

	total, err := repo.CountParts(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	items := []domain.Part{}
	if total > 0 {
		items, err = repo.ListOutOfStockPage(ctx, s.DB, f, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
	}
	suppliers, err := repo.OutOfStockSuppliers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &OutOfStockPage{Items: items, Suppliers: suppliers, Pagination: NewPagination(page, limit, total)}, nil
}

// DashboardStats returns inventory totals and a page of recent activity.
func (s *QueryService) DashboardStats(ctx context.Context, activityPage, activityLimit int) (*DashboardStats, error) {
	page, limit := s.normalize(activityPage, activityLimit, s.Limits.ActivityLimit)
	ctx, span := s.span(ctx, "DashboardStats", attribute.Int("page", page), attribute.Int("limit", limit))
	defer span.End()

	totalParts, err := repo.CountParts(ctx, s.DB, repo.PartFilter{})
	if err != nil {
		return nil, err
	}
	value, err := repo.InventoryValue(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	oos, err := repo.CountParts(ctx, s.DB, repo.PartFilter{OutOfStock: true})
	if err != nil {
		return nil, err
	}
	actTotal, err := repo.CountActivities(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	acts := []domain.Activity{}
	if actTotal > 0 {
		acts, err = repo.ListActivitiesPage(ctx, s.DB, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
	}

	return &DashboardStats{
		TotalParts:        totalParts,
		TotalValue:        value,
		TotalValueDisplay: s.FormatINR(value),
		OutOfStockCount:   oos,
		Activities:        ActivityPage{Data: acts, Pagination: NewPagination(page, limit, actTotal)},
	}, nil
}

// FormatINR renders v as Indian rupees with en-IN digit grouping.
func (s *QueryService) FormatINR(v float64) string {
	p := s.printer
	if p == nil {
		p = message.NewPrinter(language.MustParse("en-IN"))
	}
	return p.Sprintf("%v%v", currency.Symbol(currency.INR), number.Decimal(v, number.Scale(2)))
}

// CheckPartNumber reports whether another part already uses number.
// excludeID, when a valid UUID, names the part being edited; an unparsable
// excludeID is ignored.
func (s *QueryService) CheckPartNumber(ctx context.Context, number, excludeID string) (*PartNumberCheck, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrMissingPartNumber
	}
	ctx, span := s.span(ctx, "CheckPartNumber")
	defer span.End()

	if _, err := uuid.Parse(excludeID); err != nil {
		excludeID = ""
	}
	p, err := repo.FindPartByNumber(ctx, s.DB, number, excludeID)
	if errors.Is(err, repo.ErrNotFound) {
		return &PartNumberCheck{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PartNumberCheck{
		Exists: true,
		Part:   &PartSummary{ID: p.ID, PartName: p.PartName, PartNumber: p.PartNumber},
	}, nil
}

// GetPart loads one part by id.
func (s *QueryService) GetPart(ctx context.Context, id string) (*domain.Part, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	ctx, span := s.span(ctx, "GetPart", attribute.String("part.id", id))
	defer span.End()

	p, err := repo.GetPart(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	return p, err
}

// ListETag returns a weak ETag for the list view at page/limit. It changes
// whenever a part is added, removed or updated.
func (s *QueryService) ListETag(ctx context.Context, page, limit int) (string, error) {
	page, limit = s.normalize(page, limit, s.Limits.DefaultLimit)
	count, maxTS, err := repo.PartsStats(ctx, s.DB)
	if err != nil {
		return "", err
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	return fmt.Sprintf(`W/"parts:%d:%d:%d:%d"`, count, ts, page, limit), nil
}
