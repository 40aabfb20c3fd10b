package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var redisOnce sync.Once

func setupTestDB(t *testing.T) func() {
	t.Helper()

	dsn := os.Getenv("TEST_DB")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=healthsync_test port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test DB: %v", err)
	}
	configuration.MigrateDB(db)
	configuration.DB = db

	redisOnce.Do(configuration.InitRedis)

	cleanup := func() {
		for _, table := range []string{
			"payments", "medical_records", "chat_messages", "appointments",
			"slots", "user_profiles", "doctors", "specializations", "users",
		} {
			db.Exec("DELETE FROM " + table)
		}
	}
	cleanup()
	return cleanup
}

func setupTestApp() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	api.POST("/register", Register)
	api.POST("/doctor-register", DoctorRegister)
	api.GET("/unlinked-doctors", ListUnlinkedDoctors)
	api.POST("/auth/send_otp", SendOTP)
	api.POST("/auth/verify_otp", VerifyOTP)
	api.POST("/token", UnifiedLogin)
	api.POST("/token/refresh", RefreshToken)
	api.GET("/specializations", ListSpecializations)
	api.GET("/doctors", ListDoctors)
	api.GET("/doctors/:id", GetDoctorByID)

	user := api.Group("")
	user.Use(authentication.AuthMiddleware())
	{
		user.GET("/appointments", ListMyAppointments)
		user.POST("/appointments", BookAppointment)
		user.POST("/appointments/:id/make_payment", MakePayment)
		user.POST("/appointments/:id/cancel", CancelAppointment)
		user.GET("/chat", ChatHistory)
		user.POST("/chat", SendChatMessage)
		user.GET("/profile", GetProfile)
		user.POST("/profile/update_profile", UpdateProfile)
		user.GET("/medical-records", ListMedicalRecords)
		user.POST("/medical-records", UploadMedicalRecord)
	}

	doctor := api.Group("")
	doctor.Use(authentication.AuthMiddleware(), authentication.DoctorOnly())
	{
		doctor.GET("/doctor-profile", GetDoctorProfile)
		doctor.PATCH("/doctor-profile/update_info", UpdateDoctorInfo)
		doctor.GET("/doctor-appointments", ListDoctorAppointments)
		doctor.PATCH("/doctor-appointments/:id", EditAppointment)
		doctor.PATCH("/doctor-appointments/:id/update_status", UpdateAppointmentStatus)
		doctor.GET("/doctor-slots", ListDoctorSlots)
		doctor.POST("/doctor-slots", CreateSlot)
		doctor.POST("/doctor-slots/bulk_create", BulkCreateSlots)
		doctor.GET("/doctor-patients", ListDoctorPatients)
	}

	return r
}

// createTestPatient inserts a patient account and returns its user and a
// valid access token.
func createTestPatient(t *testing.T, username, password, mobile string) (models.User, string) {
	t.Helper()

	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := models.User{Username: username, FirstName: username, Password: string(hashed)}
	if err := configuration.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	profile := models.UserProfile{UserID: user.UserID, Mobile: mobile}
	if err := configuration.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}

	token, err := authentication.GenerateAccessToken(user.UserID, username, "patient", nil)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// createTestDoctor inserts a doctor account with one slot and returns the
// doctor row, the slot and a valid access token.
func createTestDoctor(t *testing.T, username string) (models.Doctor, models.Slot, string) {
	t.Helper()

	spec := models.Specialization{Name: "Neurologist"}
	configuration.DB.Where("name = ?", spec.Name).FirstOrCreate(&spec)

	doctor := models.Doctor{Name: "Dr. " + username, SpecializationID: spec.SpecializationID, Rating: 5.0}
	if err := configuration.DB.Create(&doctor).Error; err != nil {
		t.Fatalf("failed to create test doctor: %v", err)
	}

	slot := models.Slot{DoctorID: doctor.DoctorID, Time: "09:30 AM", Shift: models.ShiftMorning}
	if err := configuration.DB.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create test slot: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("docpass123"), bcrypt.DefaultCost)
	user := models.User{Username: username, FirstName: doctor.Name, Password: string(hashed)}
	if err := configuration.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create doctor user: %v", err)
	}
	doctorID := doctor.DoctorID
	profile := models.UserProfile{UserID: user.UserID, IsDoctor: true, DoctorID: &doctorID}
	if err := configuration.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create doctor profile: %v", err)
	}

	token, err := authentication.GenerateAccessToken(user.UserID, username, "doctor", &doctorID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return doctor, slot, token
}

// doJSON performs a JSON request against the test router.
func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonDecode(w *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(w.Body).Decode(v)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}
