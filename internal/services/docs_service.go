package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the PDF waybill and the carrier payout receipt.
type DocsService struct {
	Shipments repositories.ShipmentRepository
	Payments  repositories.PaymentRepository
	Currency  string
	RequestID string
	Loader    func(ctx context.Context, code string) (shipmentDocData, error)
}

type shipmentDocData struct {
	Shipment models.Shipment
	View     models.ShipmentView
	Released *models.Payment
}

// GenerateWaybill returns the PDF bytes and a download filename.
func (s DocsService) GenerateWaybill(ctx context.Context, sh models.Shipment) ([]byte, string, error) {
	data, err := s.load(ctx, sh.TrackingCode)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_waybill", "tracking_code="+sh.TrackingCode)
	return buildWaybillPDF(data, s.Currency)
}

// GenerateReceipt needs a released payment; before delivery it reports
// NotFound.
func (s DocsService) GenerateReceipt(ctx context.Context, sh models.Shipment) ([]byte, string, error) {
	data, err := s.load(ctx, sh.TrackingCode)
	if err != nil {
		return nil, "", err
	}
	if data.Released == nil {
		p, err := s.Payments.GetReleased(ctx, data.Shipment.ID)
		if err != nil {
			return nil, "", err
		}
		data.Released = &p
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "tracking_code="+sh.TrackingCode)
	return buildReceiptPDF(data, s.Currency)
}

func (s DocsService) load(ctx context.Context, code string) (shipmentDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, code)
	}
	sh, err := s.Shipments.GetByTrackingCode(ctx, code)
	if err != nil {
		return shipmentDocData{}, err
	}
	view, err := s.Shipments.TrackingView(ctx, code)
	if err != nil {
		return shipmentDocData{}, err
	}
	return shipmentDocData{Shipment: sh, View: view}, nil
}

func buildWaybillPDF(d shipmentDocData, currency string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Waybill", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "AIR WAYBILL")
	pdf.Ln(12)

	fee := "-"
	if d.Shipment.Fee != nil {
		fee = utils.FormatMoney(*d.Shipment.Fee, currency)
	}
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Tracking code  : %s", d.Shipment.TrackingCode),
		fmt.Sprintf("Status         : %s", d.Shipment.Status),
		fmt.Sprintf("Route          : %s -> %s", safe(d.View.Flight.From, "-"), safe(d.View.Flight.To, "-")),
		fmt.Sprintf("Departure      : %s", utils.FormatDate(d.View.Flight.DepartureDate)),
		fmt.Sprintf("Sender         : %s (%s)", safe(d.View.Sender.FullName, "-"), safe(d.View.Sender.Phone, "-")),
		fmt.Sprintf("Carrier        : %s (%s)", safe(d.View.Carrier.FullName, "-"), safe(d.View.Carrier.Phone, "-")),
		fmt.Sprintf("Acceptor       : %s (%s)", safe(d.Shipment.AcceptorName, "-"), safe(d.Shipment.AcceptorPhone, "-")),
		fmt.Sprintf("Weight         : %s", utils.FormatKg(d.Shipment.ItemWeight)),
		fmt.Sprintf("Fee            : %s", fee),
		fmt.Sprintf("Booked at      : %s", utils.FormatDateTime(d.Shipment.CreatedAt)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "The acceptor must present the national ID given at booking when collecting the parcel.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("WAYBILL_%s.pdf", safeFilenamePart(d.Shipment.TrackingCode)), nil
}

func buildReceiptPDF(d shipmentDocData, currency string) ([]byte, string, error) {
	p := d.Released
	if p == nil {
		return nil, "", domain.NotFoundError{Resource: "released payment"}
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payout receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYOUT RECEIPT")
	pdf.Ln(12)

	releasedAt := "-"
	if p.ReleasedAt != nil {
		releasedAt = p.ReleasedAt.UTC().Format("2006-01-02 15:04")
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Reference    : "+p.Reference)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Released at  : "+releasedAt)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued at    : "+time.Now().UTC().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Paid to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Carrier : %s (%s)", safe(d.View.Carrier.FullName, "-"), safe(d.View.Carrier.Phone, "-")))
	pdf.Ln(10)

	desc := fmt.Sprintf("Shipment %s, %s -> %s, %s",
		d.Shipment.TrackingCode,
		safe(d.View.Flight.From, "-"), safe(d.View.Flight.To, "-"),
		utils.FormatKg(d.Shipment.ItemWeight),
	)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, "Shipment fee : "+utils.FormatMoney(p.Amount, currency))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Platform fee : "+utils.FormatMoney(p.PlatformFee, currency))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Released     : "+utils.FormatMoney(p.Amount-p.PlatformFee, currency))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(d.Shipment.TrackingCode)), nil
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
