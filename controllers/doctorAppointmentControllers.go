package controllers

import (
	"errors"
	"net/http"
	"time"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInvalidSlot = errors.New("invalid slot")

// ListDoctorAppointments returns the authenticated doctor's appointments,
// newest first.
func ListDoctorAppointments(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var appointments []models.Appointment
	if err := configuration.DB.Where("doctor_id = ?", account.Doctor.DoctorID).Order("created_at desc").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	data := make([]gin.H, 0, len(appointments))
	for _, appt := range appointments {
		data = append(data, appointmentView(appt))
	}
	c.JSON(http.StatusOK, data)
}

// UpdateAppointmentStatus lets a doctor move one of their appointments to
// Accepted, Rejected or Completed. Any other requested value is rejected and
// the stored status stays unchanged.
func UpdateAppointmentStatus(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.StatusAccepted, models.StatusRejected, models.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of: Accepted, Rejected, Completed"})
		return
	}

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ? AND doctor_id = ?", c.Param("id"), account.Doctor.DoctorID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found."})
		return
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&appointment).Update("status", req.Status).Error; err != nil {
			return err
		}
		// keep the slot flag in step: set while held by an active
		// appointment, cleared otherwise
		held := !models.IsTerminalStatus(req.Status)
		return tx.Model(&models.Slot{}).Where("slot_id = ?", appointment.SlotID).Update("is_booked", held).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	c.JSON(http.StatusOK, appointmentView(appointment))
}

// EditAppointment lets a doctor change the date, problem text and slot of
// one of their appointments. A slot change frees the old slot and books the
// new one, which must belong to the same doctor.
func EditAppointment(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		AppointmentDate string `json:"appointment_date"`
		Problem         string `json:"problem"`
		Slot            uint   `json:"slot"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ? AND doctor_id = ?", c.Param("id"), account.Doctor.DoctorID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found."})
		return
	}

	if req.AppointmentDate != "" {
		if _, err := time.Parse("2006-01-02", req.AppointmentDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
		appointment.AppointmentDate = req.AppointmentDate
	}
	if req.Problem != "" {
		appointment.Problem = req.Problem
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if req.Slot != 0 && req.Slot != appointment.SlotID {
			var newSlot models.Slot
			if err := tx.Where("slot_id = ? AND doctor_id = ?", req.Slot, account.Doctor.DoctorID).First(&newSlot).Error; err != nil {
				return errInvalidSlot
			}

			if err := tx.Model(&models.Slot{}).Where("slot_id = ?", appointment.SlotID).Update("is_booked", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&newSlot).Update("is_booked", true).Error; err != nil {
				return err
			}
			appointment.SlotID = newSlot.SlotID
		}

		return tx.Save(&appointment).Error
	})
	if err != nil {
		if err == errInvalidSlot {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot."})
			return
		}
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This time slot is already booked for this date."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	c.JSON(http.StatusOK, appointmentView(appointment))
}
