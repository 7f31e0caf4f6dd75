package handlers

import "fmt"

type pricingUpdateInput struct {
	Price            *float64
	PromotionalPrice *float64
}

type pricingUpdateResult struct {
	Price            float64
	PromotionalPrice float64
}

// detailOnPromotion reports whether a SKU carries a real discount. A
// promotional price equal to the base price means no discount.
func detailOnPromotion(price, promotionalPrice float64) bool {
	return promotionalPrice > 0 && promotionalPrice < price
}

func effectiveUnitPrice(price, promotionalPrice float64) float64 {
	if detailOnPromotion(price, promotionalPrice) {
		return promotionalPrice
	}
	return price
}

func validatePricing(price, promotionalPrice float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if promotionalPrice <= 0 {
		return fmt.Errorf("promotionalPrice must be greater than 0")
	}
	if promotionalPrice > price {
		return fmt.Errorf("promotionalPrice must not exceed price")
	}
	return nil
}

// resolvePricingUpdate merges a partial pricing update into the stored
// values. When the SKU has no discount and only the base price changes, the
// promotional price follows the base price.
func resolvePricingUpdate(existingPrice, existingPromotional float64, input pricingUpdateInput) (pricingUpdateResult, error) {
	result := pricingUpdateResult{
		Price:            existingPrice,
		PromotionalPrice: existingPromotional,
	}

	if input.Price != nil {
		result.Price = *input.Price
		if input.PromotionalPrice == nil && !detailOnPromotion(existingPrice, existingPromotional) {
			result.PromotionalPrice = *input.Price
		}
	}

	if input.PromotionalPrice != nil {
		result.PromotionalPrice = *input.PromotionalPrice
	}

	if err := validatePricing(result.Price, result.PromotionalPrice); err != nil {
		return pricingUpdateResult{}, err
	}

	return result, nil
}
