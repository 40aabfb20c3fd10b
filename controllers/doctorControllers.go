package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type doctorRegisterRequest struct {
	Username         string `json:"username" validate:"required"`
	Password         string `json:"password" validate:"required"`
	DoctorID         *uint  `json:"doctor_id"`
	Name             string `json:"name"`
	SpecializationID uint   `json:"specialization_id"`
}

// DoctorRegister handles doctor self-registration. The account either links
// to a pre-seeded Doctor record without an existing profile link, or creates
// a new Doctor record inline. Tokens are issued immediately on success.
func DoctorRegister(c *gin.Context) {
	var req doctorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required."})
		return
	}

	var existingUser models.User
	if configuration.DB.Where("username = ?", req.Username).First(&existingUser).Error == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken."})
		return
	}

	var doctor models.Doctor
	if req.DoctorID != nil {
		if err := configuration.DB.First(&doctor, *req.DoctorID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor record not found."})
			return
		}

		var linked models.UserProfile
		if configuration.DB.Where("doctor_id = ?", doctor.DoctorID).First(&linked).Error == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This doctor already has an account."})
			return
		}
	} else {
		if req.Name == "" || req.SpecializationID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and Specialization are required to create a new doctor profile."})
			return
		}

		var spec models.Specialization
		if err := configuration.DB.First(&spec, req.SpecializationID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Specialization not found."})
			return
		}

		doctor = models.Doctor{
			Name:             req.Name,
			SpecializationID: spec.SpecializationID,
			Rating:           5.0,
			Location:         "Not specified",
			ImageURL:         fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=10B981&color=fff", strings.ReplaceAll(req.Name, " ", "+")),
		}
		if err := configuration.DB.Create(&doctor).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create doctor record"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{Username: req.Username, FirstName: doctor.Name, Password: string(hashedPassword)}
	if err := configuration.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	doctorID := doctor.DoctorID
	profile := models.UserProfile{UserID: user.UserID, IsDoctor: true, DoctorID: &doctorID}
	if err := configuration.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	// Auto-login: return tokens so the client is signed in immediately.
	resp, err := tokenResponse(user, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	resp["message"] = fmt.Sprintf("Doctor account created for %s.", doctor.Name)
	c.JSON(http.StatusCreated, resp)
}

// ListUnlinkedDoctors lists Doctor records without a user account, for the
// signup dropdown.
func ListUnlinkedDoctors(c *gin.Context) {
	var doctors []models.Doctor
	err := configuration.DB.Preload("Specialization").
		Where("doctor_id NOT IN (?)",
			configuration.DB.Model(&models.UserProfile{}).Select("doctor_id").Where("doctor_id IS NOT NULL"),
		).Find(&doctors).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}

	data := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		data = append(data, gin.H{
			"id":             d.DoctorID,
			"name":           d.Name,
			"specialization": d.Specialization.Name,
			"location":       d.Location,
		})
	}
	c.JSON(http.StatusOK, data)
}

// GetDoctorProfile returns the authenticated doctor's own record.
func GetDoctorProfile(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var doctor models.Doctor
	if err := configuration.DB.Preload("Specialization").Preload("Slots").First(&doctor, account.Doctor.DoctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor record not found."})
		return
	}

	c.JSON(http.StatusOK, doctorView(doctor))
}

// UpdateDoctorInfo updates the doctor's own record. An unknown
// specialization id is ignored rather than erroring, a deliberate leniency.
func UpdateDoctorInfo(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Name             string   `json:"name"`
		Experience       *int     `json:"experience"`
		About            *string  `json:"about"`
		AvailabilityTime string   `json:"availability_time"`
		Location         string   `json:"location"`
		ImageURL         string   `json:"image_url"`
		Specialization   uint     `json:"specialization"`
		Rating           *float64 `json:"rating"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor := *account.Doctor
	if req.Name != "" {
		doctor.Name = req.Name
		// keep the account display name in sync
		configuration.DB.Model(&account.User).Update("first_name", req.Name)
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.AvailabilityTime != "" {
		doctor.AvailabilityTime = req.AvailabilityTime
	}
	if req.Location != "" {
		doctor.Location = req.Location
	}
	if req.ImageURL != "" {
		doctor.ImageURL = req.ImageURL
	}
	if req.Rating != nil {
		doctor.Rating = *req.Rating
	}

	if req.Specialization != 0 {
		var spec models.Specialization
		if err := configuration.DB.First(&spec, req.Specialization).Error; err == nil {
			doctor.SpecializationID = spec.SpecializationID
		}
	}

	if err := configuration.DB.Save(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update doctor record"})
		return
	}

	configuration.DB.Preload("Specialization").Preload("Slots").First(&doctor, doctor.DoctorID)
	c.JSON(http.StatusOK, doctorView(doctor))
}

// ListDoctorPatients returns the unique patients who have appointments with
// the authenticated doctor.
func ListDoctorPatients(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var appointments []models.Appointment
	if err := configuration.DB.Where("doctor_id = ?", account.Doctor.DoctorID).Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	seen := make(map[uint]bool)
	patients := make([]gin.H, 0)
	for _, appt := range appointments {
		if seen[appt.UserID] {
			continue
		}
		seen[appt.UserID] = true

		var user models.User
		if err := configuration.DB.First(&user, appt.UserID).Error; err != nil {
			continue
		}
		name := user.FirstName
		if name == "" {
			name = user.Username
		}
		patients = append(patients, gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"name":     name,
		})
	}

	c.JSON(http.StatusOK, patients)
}
