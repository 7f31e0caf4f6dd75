package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is read here only to annotate orders with an "already rated" flag.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDAccount primitive.ObjectID `bson:"idAccount" json:"idAccount"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
