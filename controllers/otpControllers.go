package controllers

import (
	"fmt"
	"net/http"
	"time"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Codes live in redis under otp:<mobile>. A re-request overwrites the prior
// code, the TTL bounds its lifetime, and verification deletes it.
const (
	otpKeyPrefix = "otp:"
	otpTTL       = 5 * time.Minute
	otpLength    = 4
)

var smsSender authentication.SMSSender

func otpSender() authentication.SMSSender {
	if smsSender == nil {
		smsSender = authentication.NewSMSSender()
	}
	return smsSender
}

// SendOTP issues a fresh code for a mobile number.
func SendOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := c.BindJSON(&req); err != nil || req.Mobile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile number is required"})
		return
	}

	code := authentication.GenerateOTP(otpLength)
	if err := configuration.SetRedis(otpKeyPrefix+req.Mobile, code, otpTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store OTP"})
		return
	}

	if err := otpSender().SendOTP(req.Mobile, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOTP consumes a code, locating or creating the account bound to the
// mobile number, and issues session tokens.
func VerifyOTP(c *gin.Context) {
	var req struct {
		Mobile   string `json:"mobile"`
		Code     string `json:"code"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mobile == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile and code are required"})
		return
	}

	stored, err := configuration.GetRedis(otpKeyPrefix + req.Mobile)
	if err != nil || stored != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP"})
		return
	}

	user, profile := findUserByMobile(req.Mobile)
	if user == nil {
		name := req.Name
		if name == "" && len(req.Mobile) >= 4 {
			name = fmt.Sprintf("User %s", req.Mobile[len(req.Mobile)-4:])
		}
		password := req.Password
		if password == "" {
			password = uuid.NewString()
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		newUser := models.User{Username: req.Mobile, FirstName: name, Password: string(hashed)}
		if err := configuration.DB.Create(&newUser).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		newProfile := models.UserProfile{UserID: newUser.UserID, Mobile: req.Mobile}
		if err := configuration.DB.Create(&newProfile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}
		user, profile = &newUser, &newProfile
	} else if profile == nil {
		newProfile := models.UserProfile{UserID: user.UserID, Mobile: req.Mobile}
		if err := configuration.DB.Create(&newProfile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}
		profile = &newProfile
	}

	if req.Name != "" && user.FirstName != req.Name {
		user.FirstName = req.Name
		configuration.DB.Save(user)
	}

	// Single-use: the code is gone once verified.
	if err := configuration.DelRedis(otpKeyPrefix + req.Mobile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to consume OTP"})
		return
	}

	resp, err := tokenResponse(*user, *profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	resp["message"] = "Verification successful"
	c.JSON(http.StatusOK, resp)
}
