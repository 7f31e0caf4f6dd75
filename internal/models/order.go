package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod is fixed when the order is created.
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodVNPay PaymentMethod = "vnpay"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodVNPay
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusWaiting    OrderStatus = "waiting"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCancel     OrderStatus = "cancel"
)

// orderTransitions is the full lifecycle graph. There are no back-edges:
// once a state is left it is never re-entered.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusWaiting, OrderStatusCancel},
	OrderStatusWaiting:    {OrderStatusDelivering, OrderStatusCancel},
	OrderStatusDelivering: {OrderStatusDone},
	OrderStatusDone:       {},
	OrderStatusCancel:     {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle graph has an edge from s to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// OrderLineItem is a single product-detail entry within an order, carrying the
// ordered quantity and the promotional price at the time of order.
type OrderLineItem struct {
	ProductDetailID  primitive.ObjectID `bson:"productDetailId" json:"productDetailId"`
	ProductID        primitive.ObjectID `bson:"productId" json:"productId"`
	QuantityOrders   int                `bson:"quantityOrders" json:"quantityOrders"`
	PromotionalPrice float64            `bson:"promotionalPrice" json:"promotionalPrice"`
}

// StatusEntry is one element of the append-only status history.
type StatusEntry struct {
	AdminID   primitive.ObjectID `bson:"adminId" json:"adminId"`
	Status    OrderStatus        `bson:"status" json:"status"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Order defines the persisted order document. Core fields are immutable after
// creation; only the lifecycle handlers touch orderStatus, paymentStatus and
// statusHistory.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	LineItems     []OrderLineItem    `bson:"productDetails" json:"productDetails"`
	TotalPrice    float64            `bson:"total_price" json:"total_price"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus   OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	CodeOrders    string             `bson:"codeOrders" json:"codeOrders"`
	StatusHistory []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
