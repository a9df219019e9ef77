package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
)

func TestRenderHTML(t *testing.T) {
	s := NewService(&config.Config{
		App: config.AppConfig{Name: "Teashop", Currency: "원"},
		PDF: config.PDFConfig{PageSize: "A4"},
	})

	html, err := s.RenderHTML(&Receipt{
		OrderID:   "b5f1c7e2",
		OrderedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Status:    "ordered",
		Name:      "Kim <script>",
		Lines: []ReceiptLine{
			{Name: "Green tea", Option: "50g", Count: 2, Price: 12000},
			{Name: "Mug", Option: "white", Count: 1, Price: 8500},
		},
		TotalPrice: 32500,
	})
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Teashop")
	assert.Contains(t, out, "2024-03-01 09:30")
	assert.Contains(t, out, "24,000원")
	assert.Contains(t, out, "8,500원")
	assert.Contains(t, out, "Total 32,500원")
	assert.Contains(t, out, "Kim &lt;script&gt;")
	assert.NotContains(t, out, "Request")
}
