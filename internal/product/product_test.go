package product

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectivePricePrefersNetPayable(t *testing.T) {
	net := decimal.RequireFromString("4500")
	p := Product{
		ProductName: "Bridal Makeup",
		Price:       decimal.RequireFromString("5000"),
		NetPayable:  &net,
	}
	if got := p.EffectivePrice(); !got.Equal(net) {
		t.Fatalf("expected 4500, got %s", got)
	}
}

func TestEffectivePriceFallsBackToPrice(t *testing.T) {
	p := Product{
		ProductName: "Party Makeup",
		Price:       decimal.RequireFromString("2500"),
	}
	if got := p.EffectivePrice(); !got.Equal(p.Price) {
		t.Fatalf("expected 2500, got %s", got)
	}
}
