package controllers

import (
	"net/http"
	"time"

	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
)

// doctorView serializes a doctor with its specialization name and slots.
func doctorView(d models.Doctor) gin.H {
	slots := d.Slots
	if slots == nil {
		slots = []models.Slot{}
	}
	return gin.H{
		"id":                  d.DoctorID,
		"name":                d.Name,
		"specialization":      d.SpecializationID,
		"specialization_name": d.Specialization.Name,
		"experience":          d.Experience,
		"rating":              d.Rating,
		"reviews_count":       d.ReviewsCount,
		"about":               d.About,
		"image_url":           d.ImageURL,
		"availability_time":   d.AvailabilityTime,
		"location":            d.Location,
		"slots":               slots,
	}
}

// ListSpecializations returns all specializations.
func ListSpecializations(c *gin.Context) {
	var specs []models.Specialization
	if err := configuration.DB.Order("specialization_id").Find(&specs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch specializations"})
		return
	}
	c.JSON(http.StatusOK, specs)
}

// ListDoctors returns the doctor directory with nested slots.
func ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := configuration.DB.Preload("Specialization").Preload("Slots").Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}

	data := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		data = append(data, doctorView(d))
	}
	c.JSON(http.StatusOK, data)
}

// GetDoctorByID returns a single doctor. With ?date=YYYY-MM-DD each slot
// additionally reports whether it is taken on that date, derived from the
// active appointments rather than the is_booked flag.
func GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := configuration.DB.Preload("Specialization").Preload("Slots").First(&doctor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	view := doctorView(doctor)

	dateStr := c.Query("date")
	if dateStr != "" {
		if _, err := time.Parse("2006-01-02", dateStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}

		var taken []models.Appointment
		if err := configuration.DB.Where("doctor_id = ? AND appointment_date = ? AND status IN ?",
			doctor.DoctorID, dateStr, models.ActiveStatuses).Find(&taken).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		takenSlots := make(map[uint]bool)
		for _, appt := range taken {
			takenSlots[appt.SlotID] = true
		}

		slotViews := make([]gin.H, 0, len(doctor.Slots))
		for _, s := range doctor.Slots {
			slotViews = append(slotViews, gin.H{
				"id":        s.SlotID,
				"time":      s.Time,
				"shift":     s.Shift,
				"is_booked": s.IsBooked,
				"taken":     takenSlots[s.SlotID],
			})
		}
		view["slots"] = slotViews
		view["date"] = dateStr
	}

	c.JSON(http.StatusOK, view)
}
