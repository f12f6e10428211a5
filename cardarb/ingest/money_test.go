package ingest

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "plain dollars", text: "$3.50", want: "3.5"},
		{name: "bare number", text: "12.34", want: "12.34"},
		{name: "brl comma decimal", text: "R$ 81,00", want: "81"},
		{name: "us thousands", text: "1,234.56", want: "1234.56"},
		{name: "br thousands", text: "1.234,56", want: "1234.56"},
		{name: "br thousands no decimals", text: "1.234.567", want: "1234567"},
		{name: "us thousands no decimals", text: "1,234", want: "1234"},
		{name: "single comma decimal", text: "5,5", want: "5.5"},
		{name: "spaced currency", text: "R$  12,30", want: "12.3"},
		{name: "zero", text: "0.00", wantErr: true},
		{name: "negative", text: "-4.20", wantErr: true},
		{name: "garbage", text: "N/A", wantErr: true},
		{name: "empty", text: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPrice) {
					t.Errorf("ParseMoney(%q) error = %v, want ErrInvalidPrice", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) error = %v", tt.text, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseMoney(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
