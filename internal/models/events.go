package models

import "time"

// Event types
const (
	EventTypePurchaseSucceeded = "PURCHASE_SUCCEEDED"
	EventTypePurchaseFailed    = "PURCHASE_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseSucceededEvent published when a payin was created at the provider
type PurchaseSucceededEvent struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	ProductID     int64  `json:"product_id"`
	PayinID       string `json:"payin_id"`
	AmountUSDC    string `json:"amount_usdc"`
	FiatAmountCOP string `json:"fiat_amount_cop"`
}

// PurchaseFailedEvent published when an attempt terminated without a payin.
// Indeterminate is true when the create-payin call failed in flight and the
// payin may or may not exist at the provider; those attempts need operator
// reconciliation, not a blind retry.
type PurchaseFailedEvent struct {
	BaseEvent
	ProductID     int64  `json:"product_id"`
	Reason        string `json:"reason"`
	Indeterminate bool   `json:"indeterminate"`
}
