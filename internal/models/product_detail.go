package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductDetail is the inventory-tracked unit (SKU) referenced by order line
// items. Quantity is the stock still available for new orders; Reserved is the
// stock held by open orders. Placing an order moves stock from Quantity to
// Reserved in one conditional update, the done transition consumes Reserved,
// and the cancel transition moves it back.
type ProductDetail struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID        primitive.ObjectID `bson:"productId" json:"productId"`
	Size             string             `bson:"size,omitempty" json:"size,omitempty"`
	Price            float64            `bson:"price" json:"price"`
	PromotionalPrice float64            `bson:"promotionalPrice" json:"promotionalPrice"`
	Quantity         int                `bson:"quantity" json:"quantity"`
	Reserved         int                `bson:"reserved" json:"reserved"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
