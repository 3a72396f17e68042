package detect

import (
	"testing"
	"time"

	"github.com/restockd/restockd/internal/models"
	"github.com/stretchr/testify/assert"
)

func prior(available bool, price string) *models.Product {
	checked := time.Now().Add(-time.Hour)
	return &models.Product{
		URL:         "https://shop.example/item",
		Available:   &available,
		Price:       price,
		LastChecked: &checked,
	}
}

func result(available bool, price string) *models.CheckResult {
	return &models.CheckResult{
		Available:   available,
		Price:       price,
		LastChecked: time.Now(),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		prior   *models.Product
		result  *models.CheckResult
		want    Outcome
	}{
		{
			name:   "restock",
			prior:  prior(false, ""),
			result: result(true, "€12.00"),
			want:   Outcome{Kind: StateChanged, FromAvailable: false, ToAvailable: true, Price: "€12.00"},
		},
		{
			name:   "went out of stock, price tick suppressed",
			prior:  prior(true, "€10.00"),
			result: result(false, "€10.00"),
			want:   Outcome{Kind: StateChanged, FromAvailable: true, ToAvailable: false, Price: "€10.00"},
		},
		{
			name:   "state change wins over simultaneous price change",
			prior:  prior(true, "€10.00"),
			result: result(false, "€12.00"),
			want:   Outcome{Kind: StateChanged, FromAvailable: true, ToAvailable: false, Price: "€12.00"},
		},
		{
			name:   "price changed",
			prior:  prior(true, "€10.00"),
			result: result(true, "€12.00"),
			want:   Outcome{Kind: PriceChanged, OldPrice: "€10.00", NewPrice: "€12.00"},
		},
		{
			name:   "absent to present price is not a price change",
			prior:  prior(true, ""),
			result: result(true, "€12.00"),
			want:   Outcome{Kind: Unchanged},
		},
		{
			name:   "present to absent price is not a price change",
			prior:  prior(true, "€12.00"),
			result: result(true, ""),
			want:   Outcome{Kind: Unchanged},
		},
		{
			name:   "nothing changed",
			prior:  prior(true, "€10.00"),
			result: result(true, "€10.00"),
			want:   Outcome{Kind: Unchanged},
		},
		{
			name:   "no prior record",
			prior:  nil,
			result: result(true, "€10.00"),
			want:   Outcome{Kind: Unchanged},
		},
		{
			name:   "prior without recorded availability",
			prior:  &models.Product{URL: "https://shop.example/item", Price: "€9.00"},
			result: result(false, "€9.00"),
			want:   Outcome{Kind: Unchanged},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prior, tt.result))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "state_changed", StateChanged.String())
	assert.Equal(t, "price_changed", PriceChanged.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}
