package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/repo"
)

// UnknownSupplier labels parts that have no supplier.
const UnknownSupplier = "Unknown Supplier"

// Order sheet formats.
const (
	FormatText = "txt"
	FormatPDF  = "pdf"
)

// SupplierGroup is the set of selected parts ordered from one supplier.
type SupplierGroup struct {
	Supplier string        `json:"supplier"`
	Items    []domain.Part `json:"items"`
}

// OrderSheet is a restock list grouped by supplier.
type OrderSheet struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	TotalItems  int             `json:"totalItems"`
	Groups      []SupplierGroup `json:"groups"`
}

// OrderSheetService builds supplier order sheets from selected parts.
type OrderSheetService struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewOrderSheetService constructs an OrderSheetService.
func NewOrderSheetService(db *gorm.DB) *OrderSheetService {
	return &OrderSheetService{DB: db, Now: time.Now}
}

// Build loads the parts named by ids and groups them by supplier. Unknown ids
// are skipped; ErrEmptySelection is returned when nothing remains.
func (s *OrderSheetService) Build(ctx context.Context, ids []string) (*OrderSheet, error) {
	ctx, span := otel.Tracer("services/OrderSheetService").Start(ctx, "Build",
		trace.WithAttributes(attribute.Int("ids.count", len(ids))))
	defer span.End()

	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return nil, ErrEmptySelection
	}
	parts, err := repo.GetPartsByIDs(ctx, s.DB, clean)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrEmptySelection
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return GroupBySupplier(parts, now()), nil
}

// GroupBySupplier groups parts by supplier name, blank suppliers falling
// under UnknownSupplier. Groups are sorted by supplier, items by part name.
func GroupBySupplier(parts []domain.Part, at time.Time) *OrderSheet {
	bySupplier := map[string][]domain.Part{}
	for _, p := range parts {
		sup := strings.TrimSpace(p.Supplier)
		if sup == "" {
			sup = UnknownSupplier
		}
		bySupplier[sup] = append(bySupplier[sup], p)
	}
	sheet := &OrderSheet{GeneratedAt: at, TotalItems: len(parts)}
	for sup, items := range bySupplier {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].PartName != items[j].PartName {
				return items[i].PartName < items[j].PartName
			}
			return items[i].ID < items[j].ID
		})
		sheet.Groups = append(sheet.Groups, SupplierGroup{Supplier: sup, Items: items})
	}
	sort.Slice(sheet.Groups, func(i, j int) bool { return sheet.Groups[i].Supplier < sheet.Groups[j].Supplier })
	return sheet
}

// FileName is the download name for the sheet in the given format.
func (o *OrderSheet) FileName(format string) string {
	return fmt.Sprintf("supplier-order-%s.%s", o.GeneratedAt.Format("2006-01-02"), format)
}

const generatedLayout = "02/01/2006, 15:04:05"

// RenderText writes the sheet as a plain-text order list.
func RenderText(w io.Writer, o *OrderSheet) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder
	b.WriteString("=== SUPPLIER ORDER LIST ===\n")
	fmt.Fprintf(&b, "Generated: %s\n", o.GeneratedAt.Format(generatedLayout))
	fmt.Fprintf(&b, "Total Items: %d\n\n", o.TotalItems)

	for _, g := range o.Groups {
		fmt.Fprintf(&b, "\n%s\nSUPPLIER: %s\nItems: %d\n%s\n\n", rule, g.Supplier, len(g.Items), rule)
		for i, p := range g.Items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p.PartName)
			fmt.Fprintf(&b, "   Part Number: %s\n", p.PartNumber)
			fmt.Fprintf(&b, "   Location: %s\n", p.Location)
			fmt.Fprintf(&b, "   Unit: %s\n", p.UnitOfMeasure)
			if p.Brand != "" {
				fmt.Fprintf(&b, "   Brand: %s\n", p.Brand)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPDF renders the sheet as a paged PDF document.
func RenderPDF(o *OrderSheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Supplier Order List", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New("Generated: "+o.GeneratedAt.Format(generatedLayout), props.Text{Size: 9}),
			text.New(fmt.Sprintf("Total Items: %d", o.TotalItems), props.Text{Size: 9, Top: 4}),
		),
	)

	for _, g := range o.Groups {
		m.AddRow(12,
			text.NewCol(12, fmt.Sprintf("Supplier: %s (%d items)", g.Supplier, len(g.Items)), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   4,
			}),
		)
		m.AddRow(7,
			text.NewCol(1, "#", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Part", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Part Number", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Location", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Unit", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for i, p := range g.Items {
			name := p.PartName
			if p.Brand != "" {
				name += " (" + p.Brand + ")"
			}
			m.AddRow(7,
				text.NewCol(1, fmt.Sprintf("%d", i+1), props.Text{Size: 9}),
				text.NewCol(4, name, props.Text{Size: 9}),
				text.NewCol(3, p.PartNumber, props.Text{Size: 9}),
				text.NewCol(2, p.Location, props.Text{Size: 9}),
				text.NewCol(2, p.UnitOfMeasure, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
