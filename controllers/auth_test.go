package controllers

import (
	"net/http"
	"testing"
	"time"

	"healthsync/configuration"
	"healthsync/models"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	w := doJSON(router, http.MethodPost, "/api/register", "", map[string]interface{}{
		"username": "lara",
		"password": "pw123456",
		"mobile":   "7770001111",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"duplicate username", map[string]interface{}{"username": "lara", "password": "x12345", "mobile": "7770009999"}},
		{"duplicate mobile", map[string]interface{}{"username": "lara2", "password": "x12345", "mobile": "7770001111"}},
		{"missing mobile", map[string]interface{}{"username": "lara3", "password": "x12345"}},
		{"missing password", map[string]interface{}{"username": "lara4", "mobile": "7770002222"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUnifiedLogin(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	user, _ := createTestPatient(t, "mike", "pw123456", "7771112222")
	user.Email = "mike@example.com"
	configuration.DB.Save(&user)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantStatus int
	}{
		{"by username", "mike", "pw123456", http.StatusOK},
		{"by email", "mike@example.com", "pw123456", http.StatusOK},
		{"by mobile", "7771112222", "pw123456", http.StatusOK},
		{"wrong password", "mike", "nope", http.StatusUnauthorized},
		{"unknown identifier", "nobody", "pw123456", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/token", "", map[string]interface{}{
				"username": tt.identifier,
				"password": tt.password,
			})
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				body := decodeBody(t, w)
				assert.NotEmpty(t, body["access"])
				assert.NotEmpty(t, body["refresh"])
				userInfo := body["user"].(map[string]interface{})
				assert.Equal(t, "mike", userInfo["username"])
				assert.Equal(t, "patient", userInfo["role"])
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	createTestPatient(t, "nina", "pw123456", "7772223333")

	w := doJSON(router, http.MethodPost, "/api/token", "", map[string]interface{}{
		"username": "nina",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	refresh := decodeBody(t, w)["refresh"].(string)

	w = doJSON(router, http.MethodPost, "/api/token/refresh", "", map[string]interface{}{"refresh": refresh})
	assert.Equal(t, http.StatusOK, w.Code)
	access := decodeBody(t, w)["access"].(string)
	assert.NotEmpty(t, access)

	// the fresh access token works against an authenticated endpoint
	w = doJSON(router, http.MethodGet, "/api/profile", access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// garbage refresh tokens are rejected
	w = doJSON(router, http.MethodPost, "/api/token/refresh", "", map[string]interface{}{"refresh": "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOTPFlow(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	mobile := "8887776666"

	w := doJSON(router, http.MethodPost, "/api/auth/send_otp", "", map[string]interface{}{"mobile": mobile})
	assert.Equal(t, http.StatusOK, w.Code)

	// Pin the stored code so the scenario is deterministic.
	err := configuration.SetRedis("otp:"+mobile, "4321", 5*time.Minute)
	assert.NoError(t, err)

	// A wrong code fails and leaves the stored code untouched.
	w = doJSON(router, http.MethodPost, "/api/auth/verify_otp", "", map[string]interface{}{
		"mobile": mobile,
		"code":   "0000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Invalid OTP")

	stored, err := configuration.GetRedis("otp:" + mobile)
	assert.NoError(t, err)
	assert.Equal(t, "4321", stored)

	// The right code verifies, creates the account and issues tokens.
	w = doJSON(router, http.MethodPost, "/api/auth/verify_otp", "", map[string]interface{}{
		"mobile": mobile,
		"code":   "4321",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])

	var profile models.UserProfile
	assert.NoError(t, configuration.DB.Where("mobile = ?", mobile).First(&profile).Error)

	// Single-use: the consumed code no longer verifies.
	w = doJSON(router, http.MethodPost, "/api/auth/verify_otp", "", map[string]interface{}{
		"mobile": mobile,
		"code":   "4321",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendOTPRequiresMobile(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	w := doJSON(router, http.MethodPost, "/api/auth/send_otp", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorRegister(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	spec := models.Specialization{Name: "Dermatologist"}
	configuration.DB.Create(&spec)

	// inline doctor creation with auto-login
	w := doJSON(router, http.MethodPost, "/api/doctor-register", "", map[string]interface{}{
		"username":          "drnew",
		"password":          "pw123456",
		"name":              "Dr. New",
		"specialization_id": spec.SpecializationID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access"])
	userInfo := body["user"].(map[string]interface{})
	assert.Equal(t, "doctor", userInfo["role"])

	// linking an unlinked seed doctor
	unlinked := models.Doctor{Name: "Dr. Seeded", SpecializationID: spec.SpecializationID}
	configuration.DB.Create(&unlinked)

	w = doJSON(router, http.MethodPost, "/api/doctor-register", "", map[string]interface{}{
		"username":  "drseeded",
		"password":  "pw123456",
		"doctor_id": unlinked.DoctorID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// the same doctor record cannot be linked twice
	w = doJSON(router, http.MethodPost, "/api/doctor-register", "", map[string]interface{}{
		"username":  "drseeded2",
		"password":  "pw123456",
		"doctor_id": unlinked.DoctorID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "already has an account")

	// unknown doctor id
	w = doJSON(router, http.MethodPost, "/api/doctor-register", "", map[string]interface{}{
		"username":  "drghost",
		"password":  "pw123456",
		"doctor_id": 99999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// inline creation without a specialization
	w = doJSON(router, http.MethodPost, "/api/doctor-register", "", map[string]interface{}{
		"username": "drnameless",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnlinkedDoctors(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestApp()

	// createTestDoctor links its doctor; add one unlinked on top
	doctor, _, _ := createTestDoctor(t, "drlinked")
	spec := models.Specialization{}
	configuration.DB.First(&spec, doctor.SpecializationID)
	unlinked := models.Doctor{Name: "Dr. Free", SpecializationID: spec.SpecializationID}
	configuration.DB.Create(&unlinked)

	w := doJSON(router, http.MethodGet, "/api/unlinked-doctors", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	assert.NoError(t, jsonDecode(w, &list))
	assert.Len(t, list, 1)
	assert.Equal(t, "Dr. Free", list[0]["name"])
}
