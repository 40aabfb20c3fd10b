package models

import "time"

// MedicalRecord attachments are stored as opaque base64 text; the server
// never parses or validates the payload.
type MedicalRecord struct {
	RecordID   uint      `gorm:"primaryKey" json:"id"`
	PatientID  uint      `json:"patient" gorm:"not null;index"`
	DoctorID   uint      `json:"doctor_id" gorm:"not null;index"`
	FileName   string    `json:"file_name" gorm:"not null" validate:"required"`
	FileType   string    `json:"file_type" gorm:"size:100"`
	FileSize   string    `json:"file_size" gorm:"size:50"`
	FileData   string    `json:"file_data" gorm:"type:text"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}
