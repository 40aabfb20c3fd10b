package models

type Specialization struct {
	SpecializationID uint   `gorm:"primaryKey" json:"id"`
	Name             string `json:"name" gorm:"unique;not null"`
}

type Doctor struct {
	DoctorID         uint           `gorm:"primaryKey" json:"id"`
	Name             string         `json:"name" gorm:"not null" validate:"required"`
	SpecializationID uint           `json:"specialization" gorm:"not null"`
	Specialization   Specialization `json:"-"`
	Experience       int            `json:"experience"`
	Rating           float64        `json:"rating"`
	ReviewsCount     int            `json:"reviews_count"`
	About            string         `json:"about" gorm:"type:text"`
	ImageURL         string         `json:"image_url" gorm:"size:500"`
	AvailabilityTime string         `json:"availability_time" gorm:"default:'10 AM - 5 PM'"`
	Location         string         `json:"location" gorm:"default:'Mumbai, India'"`
	Slots            []Slot         `json:"slots" gorm:"foreignKey:DoctorID"`
}
