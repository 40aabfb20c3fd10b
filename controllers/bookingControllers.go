package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// Flat consultation fee charged on the payment transition.
const consultationFee = 500.0

// appointmentView enriches an appointment with doctor, specialization and
// slot display fields.
func appointmentView(appt models.Appointment) gin.H {
	var doctor models.Doctor
	configuration.DB.Preload("Specialization").First(&doctor, appt.DoctorID)
	var slot models.Slot
	configuration.DB.First(&slot, appt.SlotID)

	return gin.H{
		"id":                  appt.AppointmentID,
		"user_id":             appt.UserID,
		"doctor":              appt.DoctorID,
		"doctor_name":         doctor.Name,
		"specialization_name": doctor.Specialization.Name,
		"slot":                appt.SlotID,
		"slot_time":           slot.Time,
		"appointment_date":    appt.AppointmentDate,
		"patient_name":        appt.PatientName,
		"patient_age":         appt.PatientAge,
		"patient_gender":      appt.PatientGender,
		"problem":             appt.Problem,
		"status":              appt.Status,
		"created_at":          appt.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")
}

// BookAppointment creates an appointment for the requesting patient. Both
// conflict guards and the insert run in one transaction; the composite
// unique index on (doctor, slot, date) backstops concurrent writers.
func BookAppointment(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		DoctorID        uint   `json:"doctor"`
		SlotID          uint   `json:"slot"`
		AppointmentDate string `json:"appointment_date"`
		PatientName     string `json:"patient_name"`
		PatientAge      int    `json:"patient_age"`
		PatientGender   string `json:"patient_gender"`
		Problem         string `json:"problem"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := models.Appointment{
		UserID:          account.User.UserID,
		DoctorID:        req.DoctorID,
		SlotID:          req.SlotID,
		AppointmentDate: req.AppointmentDate,
		PatientName:     req.PatientName,
		PatientAge:      req.PatientAge,
		PatientGender:   req.PatientGender,
		Problem:         req.Problem,
		Status:          models.StatusUpcoming,
	}

	if err := validate.Struct(booking); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all the mandatory fields"})
		return
	}

	if _, err := time.Parse("2006-01-02", booking.AppointmentDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	var conflictMsg string
	var notFoundMsg string
	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.First(&doctor, booking.DoctorID).Error; err != nil {
			notFoundMsg = "Doctor not found"
			return err
		}

		var slot models.Slot
		if err := tx.First(&slot, booking.SlotID).Error; err != nil {
			notFoundMsg = "Slot not found"
			return err
		}
		if slot.DoctorID != doctor.DoctorID {
			conflictMsg = "Slot does not belong to this doctor"
			return errors.New("slot mismatch")
		}

		// Prevent multiple active appointments with the same doctor
		var active models.Appointment
		err := tx.Where("user_id = ? AND doctor_id = ? AND status IN ?",
			booking.UserID, booking.DoctorID, models.ActiveStatuses).First(&active).Error
		if err == nil {
			conflictMsg = fmt.Sprintf("You already have an active appointment with this doctor (Date: %s). Please complete or cancel it before booking again.", active.AppointmentDate)
			return errors.New("active appointment exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var existing models.Appointment
		err = tx.Where("doctor_id = ? AND slot_id = ? AND appointment_date = ?",
			booking.DoctorID, booking.SlotID, booking.AppointmentDate).First(&existing).Error
		if err == nil {
			conflictMsg = "This time slot is already booked for this date."
			return errors.New("slot taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&booking).Error; err != nil {
			if isUniqueViolation(err) {
				conflictMsg = "This time slot is already booked for this date."
			}
			return err
		}

		return tx.Model(&slot).Update("is_booked", true).Error
	})
	if err != nil {
		switch {
		case conflictMsg != "":
			c.JSON(http.StatusBadRequest, gin.H{"error": conflictMsg})
		case notFoundMsg != "":
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment"})
		}
		return
	}

	c.JSON(http.StatusCreated, appointmentView(booking))
}

// ListMyAppointments returns the requesting user's appointments.
func ListMyAppointments(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var appointments []models.Appointment
	if err := configuration.DB.Where("user_id = ?", account.User.UserID).Order("created_at desc").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	data := make([]gin.H, 0, len(appointments))
	for _, appt := range appointments {
		data = append(data, appointmentView(appt))
	}
	c.JSON(http.StatusOK, data)
}

// MakePayment transitions an Accepted appointment to Booked. Any other
// starting status is rejected without touching the row.
func MakePayment(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ? AND user_id = ?", c.Param("id"), account.User.UserID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found."})
		return
	}

	if appointment.Status != models.StatusAccepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only approved appointments can be paid for."})
		return
	}

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		Amount:        consultationFee,
		Method:        "online",
		ReceiptID:     uuid.New().String(),
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&appointment).Update("status", models.StatusBooked).Error; err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	// Create the gateway order only after the commit so a failed transaction
	// never leaves an orphaned external order.
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		client := razorpay.NewClient(keyID, os.Getenv("RAZORPAY_KEY_SECRET"))
		order, err := client.Order.Create(map[string]interface{}{
			"amount":   consultationFee * 100, // paisa
			"currency": "INR",
			"receipt":  payment.ReceiptID,
		}, nil)
		if err != nil {
			log.Println("Error creating razorpay order:", err)
		} else if id, ok := order["id"].(string); ok {
			configuration.DB.Model(&payment).Update("razorpay_order_id", id)
		}
	}

	// Receipt delivery is best-effort: the booking is paid either way.
	if account.User.Email != "" {
		if pdfReceipt, err := generatePaymentReceiptPDF(appointment, payment); err == nil {
			if err := SendEmail("Payment receipt for your HealthSync appointment", account.User.Email, "receipt.pdf", pdfReceipt); err != nil {
				log.Println("Error sending receipt email:", err)
			}
		} else {
			log.Println("Error generating receipt PDF:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Payment successful. Your appointment is now Booked.",
		"status":     models.StatusBooked,
		"receipt_id": payment.ReceiptID,
	})
}

// CancelAppointment cancels a non-terminal appointment owned by the
// requesting patient and frees its slot.
func CancelAppointment(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ? AND user_id = ?", c.Param("id"), account.User.UserID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found."})
		return
	}

	if models.IsTerminalStatus(appointment.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment is already " + appointment.Status})
		return
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&appointment).Update("status", models.StatusCanceled).Error; err != nil {
			return err
		}
		return tx.Model(&models.Slot{}).Where("slot_id = ?", appointment.SlotID).Update("is_booked", false).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment canceled", "status": models.StatusCanceled})
}

// generatePaymentReceiptPDF renders the booking receipt attached to the
// payment confirmation email.
func generatePaymentReceiptPDF(appointment models.Appointment, payment models.Payment) ([]byte, error) {
	var doctor models.Doctor
	configuration.DB.Preload("Specialization").First(&doctor, appointment.DoctorID)
	var slot models.Slot
	configuration.DB.First(&slot, appointment.SlotID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(16, 185, 129)
	pdf.CellFormat(0, 10, "HealthSync - Appointment Booking", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Payment Receipt", "1", 1, "C", false, 0, "")
	addReceiptDetail(pdf, "Receipt ID", payment.ReceiptID)
	addReceiptDetail(pdf, "Appointment ID", fmt.Sprintf("%d", appointment.AppointmentID))
	addReceiptDetail(pdf, "Doctor", doctor.Name)
	addReceiptDetail(pdf, "Specialization", doctor.Specialization.Name)
	addReceiptDetail(pdf, "Patient", appointment.PatientName)
	addReceiptDetail(pdf, "Date", appointment.AppointmentDate)
	addReceiptDetail(pdf, "Time Slot", slot.Time)
	addReceiptDetail(pdf, "Amount Paid", fmt.Sprintf("%.2f", payment.Amount))
	addReceiptDetail(pdf, "Status", models.StatusBooked)

	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.CellFormat(0, 10, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addReceiptDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
