package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "symbol prefixed",
			text:  "€123.45",
			want:  "€123.45",
			found: true,
		},
		{
			name:  "symbol prefixed with space and comma decimal",
			text:  "€ 12,5",
			want:  "€12.50",
			found: true,
		},
		{
			name:  "symbol suffixed",
			text:  "19,99 €",
			want:  "€19.99",
			found: true,
		},
		{
			name:  "code prefixed",
			text:  "EUR 44.90",
			want:  "€44.90",
			found: true,
		},
		{
			name:  "code prefixed lowercase",
			text:  "eur 44.90",
			want:  "€44.90",
			found: true,
		},
		{
			name:  "code suffixed",
			text:  "7,00EUR",
			want:  "€7.00",
			found: true,
		},
		{
			name:  "bare two decimal amount",
			text:  "Prezzo: 15.50",
			want:  "€15.50",
			found: true,
		},
		{
			name:  "symbol wins over bare amount",
			text:  "was 99.99 now €49.90",
			want:  "€49.90",
			found: true,
		},
		{
			name:  "spaced thousands style input",
			text:  "€1 234,56",
			want:  "€1234.56",
			found: true,
		},
		{
			name:  "integer with symbol",
			text:  "€25",
			want:  "€25.00",
			found: true,
		},
		{
			name:  "surrounding text",
			text:  "Aggiungi al carrello - € 8,90 - spedizione gratuita",
			want:  "€8.90",
			found: true,
		},
		{
			name:  "no price",
			text:  "disponibile",
			found: false,
		},
		{
			name:  "bare integer is not a price",
			text:  "ordina entro 2 ore",
			found: false,
		},
		{
			name:  "empty",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Extract(tt.text)

			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
