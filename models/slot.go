package models

// Shift categories for a slot's time of day.
const (
	ShiftMorning   = "Morning"
	ShiftAfternoon = "Afternoon"
	ShiftEvening   = "Evening"
)

// Slot is a bookable time label owned by exactly one doctor. IsBooked is a
// denormalized marker meaning "currently held by an active appointment";
// per-date availability is derived from appointment rows, never from this
// flag.
type Slot struct {
	SlotID   uint   `gorm:"primaryKey" json:"id"`
	DoctorID uint   `json:"doctor_id" gorm:"not null;index"`
	Time     string `json:"time" gorm:"size:20;not null"`
	Shift    string `json:"shift" gorm:"size:20;default:'Morning'"`
	IsBooked bool   `json:"is_booked"`
}
