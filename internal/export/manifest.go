// Package export renders confirmed return plans as PDF undocking manifests.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CargoStow/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	rowHeight    = 6.0
)

// WriteManifest renders a return plan as a PDF manifest and streams it to w.
func WriteManifest(w io.Writer, plan model.ReturnPlan, date time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Undocking Manifest", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Plan summary
	summaryItems := []struct {
		label string
		value string
	}{
		{"Undocking Container", plan.ContainerID},
		{"Date", date.Format("2006-01-02")},
		{"Weight Limit", fmt.Sprintf("%.2f kg", plan.MaxWeight)},
		{"Manifest Mass", fmt.Sprintf("%.2f kg", plan.TotalMass)},
		{"Items Returned", fmt.Sprintf("%d", len(plan.ReturnItems))},
		{"Items Left Behind", fmt.Sprintf("%d", len(plan.RemainingWaste))},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, rowHeight, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, rowHeight, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	y += 5

	y = renderItemTable(pdf, "Items to Return", plan.ReturnItems, y)
	if len(plan.RemainingWaste) > 0 {
		y += 8
		renderItemTable(pdf, "Waste Remaining on Station", plan.RemainingWaste, y)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, 297.0-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CargoStow", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// renderItemTable draws a titled waste-item table and returns the y position
// below it.
func renderItemTable(pdf *fpdf.Fpdf, title string, items []model.WasteItem, y float64) float64 {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{30, 50, 45, 30, 25}
	headers := []string{"Item ID", "Name", "Reasons", "Container", "Mass (kg)"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += rowHeight

	pdf.SetFont("Helvetica", "", 9)
	if len(items) == 0 {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(sum(colWidths), rowHeight, "none", "1", 0, "C", false, 0, "")
		return y + rowHeight
	}
	for i, item := range items {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		rowData := []string{
			item.ItemID,
			item.Name,
			reasonList(item.Reasons),
			item.ContainerID,
			fmt.Sprintf("%.2f", item.Mass),
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}
	return y
}

func reasonList(reasons []model.WasteReason) string {
	s := ""
	for i, r := range reasons {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
