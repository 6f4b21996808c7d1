// Package services – PartService
//
// PartService owns every write to the inventory: create (optionally
// idempotent), full-replace update and delete. Each successful mutation
// appends exactly one activity in the same transaction as the part write.
// Image-host cleanup is best effort and runs before the database write so the
// URL list is never lost; cleanup failures are logged and never fail the
// mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/imagestore"
	"github.com/stockrakh/stockrakh/internal/repo"
)

// CreatePartScope is the idempotency scope used for part creation.
const CreatePartScope = "create_part"

const billingDateLayout = "2006-01-02"

var partCodeRE = regexp.MustCompile(`^[A-Z]*$`)

// PartInput is the complete desired state of a part, used for both create and
// update. Updates replace every mutable field, so callers resend images they
// want to keep.
type PartInput struct {
	PartName      string   `json:"partName"      validate:"required,max=255"`
	PartNumber    string   `json:"partNumber"    validate:"required,max=128"`
	Code          string   `json:"code"          validate:"max=64,partcode"`
	Quantity      *int     `json:"quantity"      validate:"required,min=0"`
	Location      string   `json:"location"      validate:"required,max=255"`
	UnitOfMeasure string   `json:"unitOfMeasure" validate:"required,max=64"`
	Brand         string   `json:"brand"         validate:"max=255"`
	Description   string   `json:"description"   validate:"max=4000"`
	Supplier      string   `json:"supplier"      validate:"max=255"`
	BuyingPrice   *float64 `json:"buyingPrice"   validate:"omitempty,min=0"`
	MRP           *float64 `json:"mrp"           validate:"omitempty,min=0"`
	BillingDate   string   `json:"billingDate"   validate:"omitempty,billingdate"`
	PartImages    []string `json:"partImages"    validate:"omitempty,max=50,dive,imageurl"`
	BillImages    []string `json:"billImages"    validate:"omitempty,max=50,dive,imageurl"`
}

// MutationResult is returned by Update and Delete.
type MutationResult struct {
	Success       bool `json:"success"`
	ImagesDeleted int  `json:"imagesDeleted"`
}

// PartService applies validated mutations to parts.
type PartService struct {
	DB             *gorm.DB
	Images         imagestore.Store
	IdempotencyTTL time.Duration
	Now            func() time.Time

	validate *validator.Validate
	policy   *bluemonday.Policy
}

// NewPartService wires a PartService. images may be nil, in which case image
// cleanup is skipped.
func NewPartService(db *gorm.DB, images imagestore.Store, idempotencyTTL time.Duration) *PartService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = 24 * time.Hour
	}
	return &PartService{
		DB:             db,
		Images:         images,
		IdempotencyTTL: idempotencyTTL,
		Now:            func() time.Time { return time.Now().UTC() },
		validate:       newPartValidator(),
		policy:         bluemonday.StrictPolicy(),
	}
}

func newPartValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("partcode", func(fl validator.FieldLevel) bool {
		return partCodeRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("billingdate", func(fl validator.FieldLevel) bool {
		_, err := parseBillingDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return validImageURL(fl.Field().String())
	})
	return v
}

// validImageURL accepts absolute http(s) URLs and root-relative paths, the
// latter being what the local image store hands out.
func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *PartService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PartService) tracer() trace.Tracer { return otel.Tracer("services/PartService") }

// parseBillingDate accepts YYYY-MM-DD or RFC 3339; empty means unset.
func parseBillingDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(billingDateLayout, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// clean trims s and strips any markup.
func (s *PartService) clean(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

func cleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Validate normalizes in (trim, strip markup) and checks every rule. It
// returns a *ValidationError listing each failed field.
func (s *PartService) Validate(in *PartInput) error {
	if s.validate == nil {
		s.validate = newPartValidator()
	}
	if s.policy == nil {
		s.policy = bluemonday.StrictPolicy()
	}
	in.PartName = s.clean(in.PartName)
	in.PartNumber = s.clean(in.PartNumber)
	in.Code = strings.TrimSpace(in.Code)
	in.Location = s.clean(in.Location)
	in.UnitOfMeasure = s.clean(in.UnitOfMeasure)
	in.Brand = s.clean(in.Brand)
	in.Description = s.clean(in.Description)
	in.Supplier = s.clean(in.Supplier)
	in.BillingDate = strings.TrimSpace(in.BillingDate)
	in.PartImages = cleanURLs(in.PartImages)
	in.BillImages = cleanURLs(in.BillImages)

	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return ve
}

// fieldPath drops the struct name prefix: "PartInput.partImages[0]" -> "partImages[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must have at most " + fe.Param() + " items"
	case "partcode":
		return "must contain uppercase letters only"
	case "billingdate":
		return "must be a date (YYYY-MM-DD)"
	case "imageurl":
		return "must be an http(s) URL or an absolute path"
	default:
		return "is invalid"
	}
}

// apply copies a validated input onto p.
func (in *PartInput) apply(p *domain.Part) {
	p.PartName = in.PartName
	p.PartNumber = in.PartNumber
	p.Code = in.Code
	p.Quantity = *in.Quantity
	p.Location = in.Location
	p.UnitOfMeasure = in.UnitOfMeasure
	p.Brand = in.Brand
	p.Description = in.Description
	p.Supplier = in.Supplier
	p.BuyingPrice = in.BuyingPrice
	p.MRP = in.MRP
	p.BillingDate, _ = parseBillingDate(in.BillingDate)
	p.PartImages = datatypes.JSONSlice[string](in.PartImages)
	p.BillImages = datatypes.JSONSlice[string](in.BillImages)
	p.Normalize()
}

// Create validates in, inserts the part and records an add activity.
func (s *PartService) Create(ctx context.Context, in PartInput) (*domain.Part, error) {
	ctx, span := s.tracer().Start(ctx, "Create")
	defer span.End()

	if err := s.Validate(&in); err != nil {
		return nil, err
	}
	p := s.newPart(in)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insert(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("part.id", p.ID))
	return p, nil
}

// CreateIdempotent behaves like Create, except that a retry carrying the same
// key (per user) within the TTL returns the originally created part with
// replayed=true. A blank key disables the replay check.
func (s *PartService) CreateIdempotent(ctx context.Context, userID, key string, in PartInput) (*domain.Part, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		p, err := s.Create(ctx, in)
		return p, false, err
	}
	ctx, span := s.tracer().Start(ctx, "CreateIdempotent",
		trace.WithAttributes(attribute.Bool("idempotency.key_present", true)))
	defer span.End()

	if p, ok, err := s.replay(ctx, userID, key); ok || err != nil {
		return p, ok, err
	}
	if err := s.Validate(&in); err != nil {
		return nil, false, err
	}

	p := s.newPart(in)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insert(ctx, tx, p); err != nil {
			return err
		}
		_, err := repo.CreateIdempotency(ctx, tx, userID, CreatePartScope, key, p.ID, http.StatusCreated, s.IdempotencyTTL)
		return err
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent request with the same key won.
		if p, ok, err := s.replay(ctx, userID, key); ok || err != nil {
			return p, ok, err
		}
	}
	if err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (s *PartService) replay(ctx context.Context, userID, key string) (*domain.Part, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, CreatePartScope, key, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p, err := repo.GetPart(ctx, s.DB, rec.ResourceID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, ErrPartNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *PartService) newPart(in PartInput) *domain.Part {
	now := s.now()
	p := &domain.Part{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	in.apply(p)
	return p
}

func (s *PartService) insert(ctx context.Context, tx *gorm.DB, p *domain.Part) error {
	if err := repo.CreatePart(ctx, tx, p); err != nil {
		return err
	}
	_, err := repo.AppendActivity(ctx, tx, domain.ActivityAdd, p, nil)
	return err
}

// Update replaces every mutable field of part id with in. Images referenced
// before but not after are deleted from the image host first. The activity is
// quantity_change when the quantity differs, edit otherwise.
func (s *PartService) Update(ctx context.Context, id string, in PartInput) (*MutationResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	ctx, span := s.tracer().Start(ctx, "Update", trace.WithAttributes(attribute.String("part.id", id)))
	defer span.End()

	if err := s.Validate(&in); err != nil {
		return nil, err
	}
	existing, err := repo.GetPart(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}

	next := *existing
	in.apply(&next)
	next.UpdatedAt = s.now()

	removed := imagestore.Diff(existing.Images(), next.Images())
	res := s.deleteImages(ctx, removed)

	typ, details := domain.ActivityEdit, (*string)(nil)
	if existing.Quantity != next.Quantity {
		msg := fmt.Sprintf("Quantity changed from %d to %d", existing.Quantity, next.Quantity)
		typ, details = domain.ActivityQuantityChange, &msg
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.SavePart(ctx, tx, &next); err != nil {
			return err
		}
		_, err := repo.AppendActivity(ctx, tx, typ, &next, details)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("images.deleted", res.Deleted))
	return &MutationResult{Success: true, ImagesDeleted: res.Deleted}, nil
}

// Delete removes part id after attempting to delete all its images, then
// records a delete activity. Activity history of the part is kept.
func (s *PartService) Delete(ctx context.Context, id string) (*MutationResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	ctx, span := s.tracer().Start(ctx, "Delete", trace.WithAttributes(attribute.String("part.id", id)))
	defer span.End()

	existing, err := repo.GetPart(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}

	res := s.deleteImages(ctx, existing.Images())

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeletePart(ctx, tx, id); err != nil {
			return err
		}
		_, err := repo.AppendActivity(ctx, tx, domain.ActivityDelete, existing, nil)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("images.deleted", res.Deleted))
	return &MutationResult{Success: true, ImagesDeleted: res.Deleted}, nil
}

func (s *PartService) deleteImages(ctx context.Context, urls []string) imagestore.DeleteResult {
	if s.Images == nil || len(urls) == 0 {
		return imagestore.DeleteResult{}
	}
	return imagestore.DeleteAll(ctx, s.Images, urls)
}
