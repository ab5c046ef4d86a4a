package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/linchh/campus-carpool/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the fare schedule as a printable price list.
func (g *Generator) Generate(entries []model.FareEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Carpool Fare Schedule", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s", time.Now().UTC().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Departure", "Arrival", "Fare"}
	colWidths := []float64{70, 70, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, entry := range entries {
		row := []string{
			entry.Departure,
			entry.Arrival,
			fmt.Sprintf("%d", entry.Fare),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	if len(entries) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 8, "No routes priced yet.", "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 9)
	pdf.MultiCell(0, 5, "Fares are flat reference prices per route. The per-passenger share is the route fare divided by the number of passengers aboard.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
