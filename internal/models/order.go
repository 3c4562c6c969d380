package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusProcessing = "Food Processing"
	OrderStatusOutForDel  = "Out for delivery"
	OrderStatusDelivered  = "Delivered"
)

// ValidOrderStatus reports whether status is one the fulfillment flow knows.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusProcessing, OrderStatusOutForDel, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem represents a single food entry within an order. Price is the
// catalog price captured when the order was placed.
type OrderItem struct {
	FoodID   primitive.ObjectID `bson:"foodId" json:"foodId"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// DeliveryAddress captures the delivery contact details for an order.
type DeliveryAddress struct {
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required"`
	Email     string `bson:"email" json:"email" validate:"required,email"`
	Street    string `bson:"street" json:"street" validate:"required"`
	City      string `bson:"city" json:"city" validate:"required"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode   string `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country   string `bson:"country,omitempty" json:"country,omitempty"`
	Phone     string `bson:"phone" json:"phone" validate:"required"`
}

// Order defines the persisted order document.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Amount        float64            `bson:"amount" json:"amount"`
	Address       DeliveryAddress    `bson:"address" json:"address"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
