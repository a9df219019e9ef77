// internal/pkg/pdf/receipt.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// Receipt is the data printed on an order receipt
type Receipt struct {
	OrderID    string
	OrderedAt  time.Time
	Status     string
	Name       string
	Tel        string
	PostCode   string
	Address    string
	Request    string
	Way        string
	Lines      []ReceiptLine
	TotalPrice int64
}

// ReceiptLine is one purchased option
type ReceiptLine struct {
	Name   string
	Option string
	Count  int
	Price  int64
}

// Service renders receipts to PDF
type Service struct {
	appName  string
	currency string
	pageSize string
	tmpl     *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	if cfg.PDF.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.PDF.WkhtmltopdfPath)
	}

	s := &Service{
		appName:  cfg.App.Name,
		currency: cfg.App.Currency,
		pageSize: cfg.PDF.PageSize,
	}
	s.tmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
		"price": func(amount int64) string { return money.Label(amount, s.currency) },
		"line":  func(l ReceiptLine) int64 { return l.Price * int64(l.Count) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}).Parse(receiptTemplate))

	return s
}

// RenderHTML executes the receipt template
func (s *Service) RenderHTML(r *Receipt) ([]byte, error) {
	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, struct {
		Shop string
		*Receipt
	}{Shop: s.appName, Receipt: r})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateReceipt renders r as a PDF document
func (s *Service) GenerateReceipt(r *Receipt) ([]byte, error) {
	html, err := s.RenderHTML(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	if s.pageSize != "" {
		pdfg.PageSize.Set(s.pageSize)
	}

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.Encoding.Set("utf-8")
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Shop}} receipt {{.OrderID}}</title>
<style>
body { font-family: "Noto Sans KR", Arial, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
td.num, th.num { text-align: right; }
.total { font-weight: bold; font-size: 16px; text-align: right; margin-top: 12px; }
.meta td { border: none; padding: 2px 6px; }
</style>
</head>
<body>
<h1>{{.Shop}}</h1>
<table class="meta">
<tr><td>Order</td><td>{{.OrderID}}</td></tr>
<tr><td>Date</td><td>{{date .OrderedAt}}</td></tr>
<tr><td>Status</td><td>{{.Status}}</td></tr>
<tr><td>Recipient</td><td>{{.Name}} ({{.Tel}})</td></tr>
<tr><td>Address</td><td>[{{.PostCode}}] {{.Address}}</td></tr>
{{if .Request}}<tr><td>Request</td><td>{{.Request}}</td></tr>{{end}}
<tr><td>Payment</td><td>{{.Way}}</td></tr>
</table>
<table>
<thead><tr><th>Item</th><th>Option</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Option}}</td><td class="num">{{.Count}}</td><td class="num">{{price .Price}}</td><td class="num">{{price (line .)}}</td></tr>
{{end}}</tbody>
</table>
<p class="total">Total {{price .TotalPrice}}</p>
</body>
</html>
`
