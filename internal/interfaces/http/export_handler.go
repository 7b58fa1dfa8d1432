package http

import (
	"bytes"
	"encoding/csv"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/dto"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/internal/infrastructure/pdf"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// exportLimit tope de filas por exportación.
const exportLimit = 1000

// ExportHandler exporta el historial de movimientos a CSV o PDF.
type ExportHandler struct {
	api *api.Client
	pdf *pdf.MovementsPDFGenerator
	log *logger.Logger
}

// NewExportHandler construye el handler de exportación.
func NewExportHandler(apiClient *api.Client, gen *pdf.MovementsPDFGenerator, log *logger.Logger) *ExportHandler {
	return &ExportHandler{api: apiClient, pdf: gen, log: log}
}

// Movements godoc
// @Summary      Exportar movimientos de inventario
// @Tags         inventory
// @Produce      application/octet-stream
// @Param        format  query  string  false  "csv o pdf"  default(csv)
// @Router       /inventory/movements/export [get]
func (h *ExportHandler) Movements(c *fiber.Ctx) error {
	token := GetSession(c).Token(c.Context())

	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(exportLimit))
	q.Set("sort_by", "created_at")
	q.Set("order", "desc")
	if mt := c.Query("movement_type"); mt != "" {
		q.Set("movement_type", mt)
	}
	if pid := c.Query("product_id"); pid != "" {
		q.Set("product_id", pid)
	}

	movements, _, err := h.api.Movements(c.Context(), token, q)
	if err != nil {
		return respondError(c, err)
	}

	switch c.Query("format", "csv") {
	case "pdf":
		out, err := h.pdf.Generate("Movimientos de Inventario", movements)
		if err != nil {
			h.log.Error().Err(err).Msg("generación de PDF de movimientos falló")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "EXPORT_ERROR", Message: "No se pudo generar el PDF",
			})
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
		return c.Send(out)
	case "csv":
		out, err := movementsCSV(movements)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "EXPORT_ERROR", Message: "No se pudo generar el CSV",
			})
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.csv"`)
		return c.Send(out)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_FORMAT", Message: "formato no soportado: usa csv o pdf",
		})
	}
}

func movementsCSV(movements []entity.Movement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"fecha", "producto", "sku", "tipo", "cantidad", "stock_anterior", "stock_nuevo", "usuario", "motivo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, mv := range movements {
		row := []string{
			mv.CreatedAt,
			mv.ProductName,
			mv.ProductSKU,
			mv.MovementType,
			strconv.Itoa(mv.Quantity),
			strconv.Itoa(mv.PreviousStock),
			strconv.Itoa(mv.NewStock),
			mv.UserName,
			mv.Reason,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
