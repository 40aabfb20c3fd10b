package models

import "time"

// Appointment lifecycle states. Upcoming -> Accepted -> Booked -> Completed,
// with Canceled and Rejected as alternative terminal states.
const (
	StatusUpcoming  = "Upcoming"
	StatusAccepted  = "Accepted"
	StatusBooked    = "Booked"
	StatusCompleted = "Completed"
	StatusCanceled  = "Canceled"
	StatusRejected  = "Rejected"
)

// ActiveStatuses are the non-terminal states. A patient may hold at most one
// appointment in any of these with a given doctor.
var ActiveStatuses = []string{StatusUpcoming, StatusAccepted, StatusBooked}

// IsTerminalStatus reports whether a status ends the appointment lifecycle.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCanceled || status == StatusRejected
}

// Appointment ties a patient, doctor, slot and calendar date together. The
// composite unique index closes the double-booking race at the persistence
// boundary: the conflict pre-checks and the insert run in one transaction,
// and a concurrent writer losing the race hits the index instead.
type Appointment struct {
	AppointmentID   uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	DoctorID        uint      `json:"doctor" gorm:"not null;uniqueIndex:idx_doctor_slot_date"`
	SlotID          uint      `json:"slot" gorm:"not null;uniqueIndex:idx_doctor_slot_date"`
	AppointmentDate string    `json:"appointment_date" gorm:"size:10;not null;uniqueIndex:idx_doctor_slot_date" validate:"required"`
	PatientName     string    `json:"patient_name" gorm:"not null" validate:"required"`
	PatientAge      int       `json:"patient_age" validate:"required"`
	PatientGender   string    `json:"patient_gender" gorm:"size:10"`
	Problem         string    `json:"problem" gorm:"type:text"`
	Status          string    `json:"status" gorm:"size:20;default:'Upcoming'"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}
