package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF строит PDF-версию отчёта. Встроенные шрифты не покрывают японский
// текст, поэтому в PDF идут английские поля.
func PDF(rep *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Industrial Surface Inspection Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Inspection Information", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Inspection ID: "+rep.ID, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, "Inspection DateTime: "+rep.CreatedAt, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, "Inspector: "+rep.Inspector, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 7, "Batch ID: "+rep.Batch, "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Judgment Result", "", 1, "", false, 0, "")
	if rep.Status == "PASS" {
		pdf.SetTextColor(10, 125, 50)
	} else {
		pdf.SetTextColor(200, 40, 40)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, rep.Status, "", 1, "", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Surface Health Score: %.1f", rep.HealthScore), "", 1, "", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Decision Reason", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, rep.Explanation.English, "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Analysis Results (Reference Only)", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if rep.HasGatekeeper {
		pdf.CellFormat(0, 6, fmt.Sprintf("surface_validation_score: %.4f", rep.GatekeeperScore), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("defect_risk_indicator: %.4f", rep.DefectScore), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("number_of_defects: %d", rep.DefectCount), "", 1, "", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "This report is intended for quality management support.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "System: "+rep.SystemName, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
