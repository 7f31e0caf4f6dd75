package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestGenerateOrderCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := generateOrderCode(orderCodeLength)
		if len(code) != orderCodeLength {
			t.Fatalf("expected code of length %d, got %q", orderCodeLength, code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(orderCodeCharset, ch) {
				t.Fatalf("code %q contains character outside charset", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected varied codes across generations, got %d distinct", len(seen))
	}
}

func TestBuildLineItemsValid(t *testing.T) {
	detailID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	items, details := buildLineItems([]createOrderLineItemRequest{
		{
			ProductDetailID:  detailID.Hex(),
			ProductID:        productID.Hex(),
			QuantityOrders:   2,
			PromotionalPrice: 150000,
		},
	})
	if details != nil {
		t.Fatalf("expected no violations, got %v", details)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	if items[0].ProductDetailID != detailID {
		t.Errorf("expected productDetailId %s, got %s", detailID.Hex(), items[0].ProductDetailID.Hex())
	}
	if items[0].ProductID != productID {
		t.Errorf("expected productId %s, got %s", productID.Hex(), items[0].ProductID.Hex())
	}
}

func TestBuildLineItemsCollectsAllViolations(t *testing.T) {
	items, details := buildLineItems([]createOrderLineItemRequest{
		{
			ProductDetailID:  "not-an-id",
			ProductID:        "also-not-an-id",
			QuantityOrders:   0,
			PromotionalPrice: -5,
		},
		{
			ProductDetailID:  primitive.NewObjectID().Hex(),
			ProductID:        "bad",
			QuantityOrders:   1,
			PromotionalPrice: 100,
		},
	})
	if items != nil {
		t.Fatalf("expected no items on violation, got %v", items)
	}
	if len(details) != 5 {
		t.Fatalf("expected 5 violations, got %d: %v", len(details), details)
	}
	for _, want := range []string{
		"productDetails[0].productDetailId is not a valid id",
		"productDetails[0].productId is not a valid id",
		"productDetails[0].quantityOrders must be greater than 0",
		"productDetails[0].promotionalPrice must not be negative",
		"productDetails[1].productId is not a valid id",
	} {
		found := false
		for _, got := range details {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected violation %q in %v", want, details)
		}
	}
}

func TestComputeTotalPrice(t *testing.T) {
	items := []models.OrderLineItem{
		{QuantityOrders: 2, PromotionalPrice: 150000},
		{QuantityOrders: 1, PromotionalPrice: 99000},
	}
	if got := computeTotalPrice(items); got != 399000 {
		t.Errorf("expected total 399000, got %v", got)
	}
	if got := computeTotalPrice(nil); got != 0 {
		t.Errorf("expected zero total for empty order, got %v", got)
	}
}

func TestOrderIsRated(t *testing.T) {
	ratedProduct := primitive.NewObjectID()
	otherProduct := primitive.NewObjectID()

	rated := ratedProductSet([]models.Review{
		{ProductID: ratedProduct},
	})

	ratedOrder := models.Order{LineItems: []models.OrderLineItem{
		{ProductID: otherProduct},
		{ProductID: ratedProduct},
	}}
	if !orderIsRated(ratedOrder, rated) {
		t.Error("expected order containing a reviewed product to be rated")
	}

	unratedOrder := models.Order{LineItems: []models.OrderLineItem{
		{ProductID: otherProduct},
	}}
	if orderIsRated(unratedOrder, rated) {
		t.Error("expected order with no reviewed products to be unrated")
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"PaymentMethod":  "paymentMethod",
		"orderStatus":    "orderStatus",
		"ProductDetails": "productDetails",
	}
	for in, want := range cases {
		if got := lowerCamel(in); got != want {
			t.Errorf("lowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
