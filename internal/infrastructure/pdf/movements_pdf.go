// Package pdf implementa la exportación del historial de movimientos de
// inventario como documento PDF (tabla A4 con encabezado y totales).
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 25, Green: 118, Blue: 210}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MovementsPDFGenerator genera el PDF del historial de movimientos.
type MovementsPDFGenerator struct{}

// NewMovementsPDFGenerator construye el generador.
func NewMovementsPDFGenerator() *MovementsPDFGenerator {
	return &MovementsPDFGenerator{}
}

// Generate produce el PDF con la lista de movimientos filtrada que está
// viendo el usuario. title describe los filtros aplicados (ej. "Todos los
// movimientos" o "Tipo: venta").
func (g *MovementsPDFGenerator) Generate(title string, movements []entity.Movement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("GesTrack - Historial de Movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(text.New("GesTrack - Historial de Movimientos", props.Text{
				Size: 13, Style: fontstyle.Bold, Color: colorPrimary,
			})),
			col.New(4).Add(text.New(title, props.Text{
				Size: 8, Align: align.Right, Color: colorGray,
			})),
		),
		line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}),
	)

	m.AddRows(headerRow())
	for i, mv := range movements {
		m.AddRows(movementRow(mv, i%2 == 1))
	}

	m.AddRows(
		line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}),
		row.New(8).Add(
			col.New(12).Add(text.New(
				fmt.Sprintf("Total de movimientos: %d", len(movements)),
				props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right},
			)),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF de movimientos: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	bold := props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary}
	right := bold
	right.Align = align.Right
	return row.New(7).Add(
		col.New(2).Add(text.New("Fecha", bold)),
		col.New(3).Add(text.New("Producto", bold)),
		col.New(2).Add(text.New("Tipo", bold)),
		col.New(1).Add(text.New("Cant.", right)),
		col.New(1).Add(text.New("Antes", right)),
		col.New(1).Add(text.New("Después", right)),
		col.New(2).Add(text.New("Usuario", bold)),
	)
}

func movementRow(mv entity.Movement, _ bool) core.Row {
	normal := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New(mv.CreatedAt, normal)),
		col.New(3).Add(text.New(mv.ProductName, normal)),
		col.New(2).Add(text.New(movementLabel(mv.MovementType), normal)),
		col.New(1).Add(text.New(fmt.Sprintf("%+d", mv.Quantity), right)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", mv.PreviousStock), right)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", mv.NewStock), right)),
		col.New(2).Add(text.New(mv.UserName, normal)),
	)
}

func movementLabel(t string) string {
	switch t {
	case entity.MovementInitialStock:
		return "Stock inicial"
	case entity.MovementSale:
		return "Venta"
	case entity.MovementAdjustment:
		return "Ajuste manual"
	case entity.MovementRestock:
		return "Reposición"
	default:
		return t
	}
}
