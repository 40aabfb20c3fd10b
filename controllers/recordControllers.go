package controllers

import (
	"errors"
	"net/http"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// recordView enriches a medical record with doctor and patient names.
func recordView(record models.MedicalRecord) gin.H {
	var doctor models.Doctor
	configuration.DB.First(&doctor, record.DoctorID)
	var patient models.User
	configuration.DB.First(&patient, record.PatientID)

	fullName := patient.FirstName
	if fullName == "" {
		fullName = patient.Username
	}

	return gin.H{
		"id":                record.RecordID,
		"patient":           record.PatientID,
		"patient_username":  patient.Username,
		"patient_full_name": fullName,
		"doctor_name":       doctor.Name,
		"file_name":         record.FileName,
		"file_type":         record.FileType,
		"file_size":         record.FileSize,
		"file_data":         record.FileData,
		"uploaded_at":       record.UploadedAt,
	}
}

// ListMedicalRecords returns records scoped by account kind: patients see
// their own records, doctors see the records they uploaded.
func ListMedicalRecords(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var records []models.MedicalRecord
	var err error
	switch account.Kind {
	case authentication.AccountDoctor:
		err = configuration.DB.Where("doctor_id = ?", account.Doctor.DoctorID).Order("uploaded_at desc").Find(&records).Error
	default:
		err = configuration.DB.Where("patient_id = ?", account.User.UserID).Order("uploaded_at desc").Find(&records).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
		return
	}

	data := make([]gin.H, 0, len(records))
	for _, record := range records {
		data = append(data, recordView(record))
	}
	c.JSON(http.StatusOK, data)
}

// UploadMedicalRecord stores a record for one of the doctor's own patients.
// Only doctor accounts may upload, and only for patients who have an
// appointment with them.
func UploadMedicalRecord(c *gin.Context) {
	account := authentication.CurrentAccount(c)
	if account.Kind != authentication.AccountDoctor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors can upload reports."})
		return
	}

	var record models.MedicalRecord
	if err := c.BindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record.DoctorID = account.Doctor.DoctorID

	if err := validate.Struct(record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File name is required"})
		return
	}

	var patient models.User
	if err := configuration.DB.First(&patient, record.PatientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	var appointment models.Appointment
	err := configuration.DB.Where("doctor_id = ? AND user_id = ?", account.Doctor.DoctorID, record.PatientID).First(&appointment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Patient is not one of your patients."})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify patient"})
		return
	}

	if err := configuration.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save record"})
		return
	}

	c.JSON(http.StatusCreated, recordView(record))
}
