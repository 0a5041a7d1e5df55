package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// DocsService renders booking invoices as PDFs.
type DocsService struct {
	DB        *sql.DB
	RequestID string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// GenerateInvoice renders the invoice for one booking and returns the PDF
// bytes plus a download filename.
func (s DocsService) GenerateInvoice(bookingID int64) ([]byte, string, error) {
	booking, err := repositories.BookingRepository{DB: s.db()}.GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	customer, err := repositories.CustomerRepository{DB: s.db()}.GetByID(booking.CustomerID)
	if err != nil {
		return nil, "", err
	}
	vehicle, err := repositories.VehicleRepository{DB: s.db()}.GetByID(booking.VehicleID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(booking, customer, vehicle)
}

func buildInvoicePDF(b models.Booking, c models.Customer, v models.Vehicle) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RENTAL INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : INV-"+b.BookingNumber)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+utils.FormatDateTime(b.UpdatedAt))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+safe(c.Name, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+safe(c.Email, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone : "+safe(c.Phone, "-"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rental:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	rental := []string{
		fmt.Sprintf("Booking   : %s (%s)", b.BookingNumber, b.Status),
		fmt.Sprintf("Vehicle   : %s (%s)", safe(v.Name, "-"), safe(v.PlateNumber, "-")),
		fmt.Sprintf("Period    : %s to %s (%d days)", utils.FormatDate(b.PickupDate), utils.FormatDate(b.ReturnDate), b.NumberOfDays),
		fmt.Sprintf("Route     : %s -> %s", safe(b.PickupLocation, "-"), safe(b.ReturnLocation, "-")),
	}
	for _, line := range rental {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	charges := []struct {
		label  string
		amount float64
		always bool
	}{
		{fmt.Sprintf("Base (%d days @ %s)", b.NumberOfDays, utils.FormatMoney(b.DailyRate)), b.BaseAmount, true},
		{fmt.Sprintf("Extra distance (%d km)", b.ExtraKm), b.ExtraKmCharges, false},
		{"Driver charges", b.DriverCharges, false},
		{"Discount", -b.Discount, false},
		{fmt.Sprintf("Tax (%.2f%%)", b.TaxRate), b.TaxAmount, false},
	}
	for _, line := range charges {
		if !line.always && line.amount == 0 {
			continue
		}
		pdf.Cell(120, 6, line.label)
		pdf.CellFormat(0, 6, utils.FormatMoney(line.amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Total")
	pdf.CellFormat(0, 8, utils.FormatMoney(b.TotalAmount), "", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(120, 6, "Paid")
	pdf.CellFormat(0, 6, utils.FormatMoney(b.AdvancePaid), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(120, 6, "Balance due")
	pdf.CellFormat(0, 6, utils.FormatMoney(b.BalanceAmount), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Payment status: %s.", b.PaymentStatus), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s_%s.pdf", b.BookingNumber, safeFilenamePart(c.Name))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
