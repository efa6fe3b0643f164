package models

import "time"

// Order is the durable record of a purchase. Customer and item data are
// snapshotted at creation time so later catalog or profile edits never
// touch historical orders.
type Order struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID        string `json:"order_id" gorm:"uniqueIndex;not null"`
	GatewayOrderID string `json:"gateway_order_id" gorm:"uniqueIndex;not null"`

	// Filled in once the gateway confirms a payment.
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	GatewaySignature string `json:"-"`

	Customer Customer    `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderRefID;constraint:OnDelete:CASCADE"`

	Amount        int64  `json:"amount" gorm:"not null"` // total in paise
	Currency      string `json:"currency" gorm:"not null;default:INR"`
	Status        string `json:"status" gorm:"not null;index;default:pending"`
	FailureReason string `json:"-"`
}

// Customer is the snapshot taken at checkout.
type Customer struct {
	Name    string  `json:"name" gorm:"not null"`
	Email   string  `json:"email" gorm:"not null;index"`
	Phone   string  `json:"phone" gorm:"not null"`
	Address Address `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
}

// Address is the shipping address captured with the order.
type Address struct {
	Line1   string `json:"line1" gorm:"not null"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city" gorm:"not null"`
	State   string `json:"state" gorm:"not null"`
	ZipCode string `json:"zip_code" gorm:"not null"`
	Country string `json:"country" gorm:"not null;default:India"`
}

// OrderItem is one denormalized line of an order.
type OrderItem struct {
	ID         uint `json:"-" gorm:"primaryKey"`
	OrderRefID uint `json:"-" gorm:"index"`

	ProductSlug  string `json:"product_slug"`
	ProductTitle string `json:"product_title"`
	ProductType  string `json:"product_type"`
	Size         string `json:"size,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"` // unit price in paise
}

// Order status constants
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusFailed   = "failed"
	OrderStatusRefunded = "refunded"
)

// OrderRequest is the checkout payload from the storefront client.
type OrderRequest struct {
	Customer Customer           `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
	// Optional; when the client sends a total it must match the computed sum.
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// OrderItemRequest is one cart line in the checkout payload.
type OrderItemRequest struct {
	ProductSlug  string `json:"product_slug"`
	ProductTitle string `json:"product_title"`
	ProductType  string `json:"product_type"`
	Size         string `json:"size,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
}
