package infra

// pdf.go — closing report generation using go-pdf/fpdf.
// One A5 page per closed caixa: session header, counted values per payment
// method, counted vs system grand totals and the resulting difference.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateFechamentoPDF renders the closing report of a closed caixa.
// storagePath is the directory where the PDF is written (created if needed).
// Returns the absolute path to the generated file.
func GenerateFechamentoPDF(caixa *model.Caixa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("fechamento_%s.pdf", caixa.ID.String())
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "SIGAM", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Relatório de Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Session info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	if caixa.Responsavel != nil {
		pdf.CellFormat(contentW, 5, "Responsável: "+caixa.Responsavel.Nome, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Abertura: "+caixa.DataAbertura.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if caixa.DataFechamento != nil {
		pdf.CellFormat(contentW, 5, "Fechamento: "+caixa.DataFechamento.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Valor de abertura: R$ "+caixa.ValorAbertura.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Counted values per method ────────────────────────────────────────────
	col1 := contentW * 0.6
	col2 := contentW * 0.4

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Método", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Apurado", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	linhas := []struct {
		label string
		valor decimal.Decimal
	}{
		{"Dinheiro", caixa.DinheiroApurado},
		{"Cartão Crédito", caixa.CreditoApurado},
		{"Cartão Débito", caixa.DebitoApurado},
		{"PIX", caixa.PixApurado},
	}
	for _, l := range linhas {
		pdf.CellFormat(col1, 5, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "R$ "+l.valor.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	if caixa.ValorFechamentoApurado != nil {
		pdf.CellFormat(col1, 6, "Total apurado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "R$ "+caixa.ValorFechamentoApurado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if caixa.ValorFechamentoSistema != nil {
		pdf.CellFormat(col1, 6, "Total do sistema:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "R$ "+caixa.ValorFechamentoSistema.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if caixa.ValorFechamentoApurado != nil && caixa.ValorFechamentoSistema != nil {
		diff := caixa.ValorFechamentoApurado.Sub(*caixa.ValorFechamentoSistema)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(col1, 5, "Diferença:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "R$ "+diff.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
