// Package invoice renders payment receipts as PDF documents.
package invoice

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Data holds everything printed on an invoice.
type Data struct {
	InvoiceNumber string
	IssuedAt      time.Time
	SiteName      string
	AdminName     string
	AdminEmail    string
	PlanName      string
	DurationDays  int
	AmountCents   int64
	Currency      string
	Provider      string
	Receipt       string // provider transaction reference
}

// Render writes the invoice PDF to w.
func Render(w io.Writer, d Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", d.InvoiceNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 12, d.SiteName)
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Invoice "+d.InvoiceNumber)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Issued "+d.IssuedAt.UTC().Format("January 2, 2006"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed to")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, d.AdminName)
	pdf.Ln(6)
	pdf.Cell(0, 6, d.AdminEmail)
	pdf.Ln(14)

	// Line item table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(243, 244, 246)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("%s plan subscription (%d days)", d.PlanName, d.DurationDays)
	pdf.CellFormat(120, 8, desc, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, FormatAmount(d.AmountCents, d.Currency), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, FormatAmount(d.AmountCents, d.Currency), "1", 1, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(107, 114, 128)
	if d.Receipt != "" {
		pdf.Cell(0, 5, fmt.Sprintf("Paid via %s, reference %s", d.Provider, d.Receipt))
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, "Thank you for your business.")

	return pdf.Output(w)
}

// FormatAmount renders cents as a currency string, e.g. "USD 49.00".
func FormatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", strings.ToUpper(currency), cents/100, cents%100)
}
