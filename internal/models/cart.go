package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart is one user's saved line for a single product detail. Entries are
// removed when the matching line items are successfully ordered.
type Cart struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	ProductDetail primitive.ObjectID `bson:"productDetail" json:"productDetail"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
