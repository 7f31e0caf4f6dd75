package handlers

import "testing"

func TestValidatePricingRejectsPromotionalAbovePrice(t *testing.T) {
	tests := []float64{101, 150}
	for _, promotional := range tests {
		if err := validatePricing(100, promotional); err == nil {
			t.Fatalf("expected validation error for promotionalPrice=%v", promotional)
		}
	}
}

func TestValidatePricingRejectsNonPositiveValues(t *testing.T) {
	if err := validatePricing(0, 10); err == nil {
		t.Fatal("expected validation error for price=0")
	}
	if err := validatePricing(100, 0); err == nil {
		t.Fatal("expected validation error for promotionalPrice=0")
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	if got := effectiveUnitPrice(100, 75); got != 75 {
		t.Fatalf("expected promotional price 75, got %v", got)
	}
	if got := effectiveUnitPrice(100, 100); got != 100 {
		t.Fatalf("expected base price 100 without discount, got %v", got)
	}
}

func TestResolvePricingUpdatePromotionalFollowsPriceWithoutDiscount(t *testing.T) {
	newPrice := 120.0
	result, err := resolvePricingUpdate(100, 100, pricingUpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("resolvePricingUpdate returned error: %v", err)
	}
	if result.Price != 120 || result.PromotionalPrice != 120 {
		t.Fatalf("expected both prices to move to 120, got price=%v promotional=%v", result.Price, result.PromotionalPrice)
	}
}

func TestResolvePricingUpdateKeepsDiscountWhenPriceChanges(t *testing.T) {
	newPrice := 120.0
	result, err := resolvePricingUpdate(100, 80, pricingUpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("resolvePricingUpdate returned error: %v", err)
	}
	if result.Price != 120 || result.PromotionalPrice != 80 {
		t.Fatalf("expected discount to survive base price change, got price=%v promotional=%v", result.Price, result.PromotionalPrice)
	}
}

func TestResolvePricingUpdateRejectsInvalidCombination(t *testing.T) {
	newPromotional := 150.0
	if _, err := resolvePricingUpdate(100, 80, pricingUpdateInput{PromotionalPrice: &newPromotional}); err == nil {
		t.Fatal("expected error when promotional price exceeds base price")
	}
}
