package models

import "time"

// Payment records the Accepted -> Booked transition of an appointment.
type Payment struct {
	PaymentID       uint      `gorm:"primaryKey" json:"id"`
	AppointmentID   uint      `json:"appointment_id" gorm:"not null;index"`
	Amount          float64   `json:"amount"`
	Method          string    `json:"method"`
	ReceiptID       string    `json:"receipt_id" gorm:"size:40"`
	RazorpayOrderID string    `json:"razorpay_order_id,omitempty"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}
