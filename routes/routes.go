package routes

import (
	"healthsync/authentication"
	"healthsync/controllers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the gin engine with all API routes registered.
func SetupRoutes() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	// public routes
	api.POST("/register", controllers.Register)
	api.POST("/doctor-register", controllers.DoctorRegister)
	api.GET("/unlinked-doctors", controllers.ListUnlinkedDoctors)
	api.POST("/auth/send_otp", controllers.SendOTP)
	api.POST("/auth/verify_otp", controllers.VerifyOTP)
	api.POST("/token", controllers.UnifiedLogin)
	api.POST("/token/refresh", controllers.RefreshToken)
	api.GET("/specializations", controllers.ListSpecializations)
	api.GET("/doctors", controllers.ListDoctors)
	api.GET("/doctors/:id", controllers.GetDoctorByID)

	// authenticated routes, patient or doctor
	user := api.Group("")
	user.Use(authentication.AuthMiddleware())
	{
		user.GET("/appointments", controllers.ListMyAppointments)
		user.POST("/appointments", controllers.BookAppointment)
		user.POST("/appointments/:id/make_payment", controllers.MakePayment)
		user.POST("/appointments/:id/cancel", controllers.CancelAppointment)
		user.GET("/chat", controllers.ChatHistory)
		user.POST("/chat", controllers.SendChatMessage)
		user.GET("/profile", controllers.GetProfile)
		user.POST("/profile/update_profile", controllers.UpdateProfile)
		user.GET("/medical-records", controllers.ListMedicalRecords)
		user.POST("/medical-records", controllers.UploadMedicalRecord)
	}

	// doctor-only routes
	doctor := api.Group("")
	doctor.Use(authentication.AuthMiddleware(), authentication.DoctorOnly())
	{
		doctor.GET("/doctor-profile", controllers.GetDoctorProfile)
		doctor.PATCH("/doctor-profile/update_info", controllers.UpdateDoctorInfo)
		doctor.GET("/doctor-appointments", controllers.ListDoctorAppointments)
		doctor.PATCH("/doctor-appointments/:id", controllers.EditAppointment)
		doctor.PATCH("/doctor-appointments/:id/update_status", controllers.UpdateAppointmentStatus)
		doctor.GET("/doctor-slots", controllers.ListDoctorSlots)
		doctor.POST("/doctor-slots", controllers.CreateSlot)
		doctor.POST("/doctor-slots/bulk_create", controllers.BulkCreateSlots)
		doctor.GET("/doctor-patients", controllers.ListDoctorPatients)
	}

	return r
}
