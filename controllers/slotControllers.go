package controllers

import (
	"net/http"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
)

// ListDoctorSlots returns the authenticated doctor's own slots.
func ListDoctorSlots(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var slots []models.Slot
	if err := configuration.DB.Where("doctor_id = ?", account.Doctor.DoctorID).Order("slot_id").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slots"})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// CreateSlot creates a single slot owned by the authenticated doctor.
func CreateSlot(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Time  string `json:"time"`
		Shift string `json:"shift"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Time == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Time is required"})
		return
	}
	if req.Shift == "" {
		req.Shift = models.ShiftMorning
	}

	slot := models.Slot{DoctorID: account.Doctor.DoctorID, Time: req.Time, Shift: req.Shift}
	if err := configuration.DB.Create(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// BulkCreateSlots creates a batch of slots. Entries with an empty time are
// silently skipped.
func BulkCreateSlots(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Slots []struct {
			Time  string `json:"time"`
			Shift string `json:"shift"`
		} `json:"slots"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := make([]models.Slot, 0, len(req.Slots))
	for _, s := range req.Slots {
		if s.Time == "" {
			continue
		}
		shift := s.Shift
		if shift == "" {
			shift = models.ShiftMorning
		}
		slot := models.Slot{DoctorID: account.Doctor.DoctorID, Time: s.Time, Shift: shift}
		if err := configuration.DB.Create(&slot).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
			return
		}
		created = append(created, slot)
	}

	c.JSON(http.StatusCreated, created)
}
