package controllers

import (
	"fmt"
	"net/http"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// tokenResponse builds the auth payload returned by login, OTP verification
// and doctor self-registration.
func tokenResponse(user models.User, profile models.UserProfile) (gin.H, error) {
	role := "patient"
	if profile.IsDoctor {
		role = "doctor"
	}

	access, err := authentication.GenerateAccessToken(user.UserID, user.Username, role, profile.DoctorID)
	if err != nil {
		return nil, err
	}
	refresh, err := authentication.GenerateRefreshToken(user.UserID)
	if err != nil {
		return nil, err
	}

	name := user.FirstName
	if name == "" {
		name = user.Username
	}

	return gin.H{
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"username":  user.Username,
			"name":      name,
			"role":      role,
			"doctor_id": profile.DoctorID,
		},
	}, nil
}

// Register handles patient signup
func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Mobile   string `json:"mobile"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username == "" || req.Password == "" || req.Mobile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, Password and Mobile are required"})
		return
	}

	var existingUser models.User
	userTaken := configuration.DB.Where("username = ?", req.Username).First(&existingUser).Error == nil
	var existingProfile models.UserProfile
	mobileTaken := configuration.DB.Where("mobile = ?", req.Mobile).First(&existingProfile).Error == nil
	if userTaken || mobileTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or Mobile number already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:  req.Username,
		FirstName: req.Username,
		Password:  string(hashedPassword),
	}
	if err := configuration.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	profile := models.UserProfile{UserID: user.UserID, Mobile: req.Mobile, IsDoctor: false}
	if err := configuration.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

// UnifiedLogin accepts username, email or mobile as the identifier, resolved
// in that priority order.
func UnifiedLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Mobile
	}
	if identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credentials required"})
		return
	}

	var user models.User
	err := configuration.DB.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		var profile models.UserProfile
		if configuration.DB.Where("mobile = ?", identifier).First(&profile).Error == nil {
			err = configuration.DB.First(&user, profile.UserID).Error
		}
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	var profile models.UserProfile
	if err := configuration.DB.Where("user_id = ?", user.UserID).First(&profile).Error; err != nil {
		profile = models.UserProfile{UserID: user.UserID}
		configuration.DB.Create(&profile)
	}

	resp, err := tokenResponse(user, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	resp["message"] = "Login successful"
	c.JSON(http.StatusOK, resp)
}

// RefreshToken issues a new access token from a valid refresh token.
func RefreshToken(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	claims, err := authentication.VerifyRefreshToken(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	account, err := authentication.ResolveAccount(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}

	access, err := authentication.GenerateAccessToken(account.User.UserID, account.User.Username, account.Role(), account.Profile.DoctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// GetProfile returns the requesting user's profile with documented fallback
// values for fields left empty.
func GetProfile(c *gin.Context) {
	account := authentication.CurrentAccount(c)
	user := account.User
	profile := account.Profile

	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	email := user.Email
	if email == "" {
		email = fmt.Sprintf("%s@healthsync.io", user.Username)
	}
	mobile := profile.Mobile
	if mobile == "" {
		mobile = "Not Configured"
	}
	location := profile.Location
	if location == "" {
		location = "New Delhi, Sector 24, IN"
	}
	photo := profile.ProfilePhoto
	if photo == "" {
		photo = fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=46C2DE&color=fff", name)
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"name":          name,
		"email":         email,
		"mobile":        mobile,
		"location":      location,
		"profile_photo": photo,
		"role":          account.Role(),
		"doctor_id":     profile.DoctorID,
	})
}

// UpdateProfile updates name, mobile, location and photo. A doctor account's
// name change is synced to its Doctor record.
func UpdateProfile(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Name         string `json:"name"`
		Mobile       string `json:"mobile"`
		Location     string `json:"location"`
		ProfilePhoto string `json:"profile_photo"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := account.User
	profile := account.Profile

	if req.Name != "" {
		user.FirstName = req.Name
		if err := configuration.DB.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		if account.Kind == authentication.AccountDoctor {
			if err := configuration.DB.Model(account.Doctor).Update("name", req.Name).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update doctor record"})
				return
			}
		}
	}

	if req.Mobile != "" {
		profile.Mobile = req.Mobile
	}
	if req.Location != "" {
		profile.Location = req.Location
	}
	if req.ProfilePhoto != "" {
		profile.ProfilePhoto = req.ProfilePhoto
	}

	if err := configuration.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"name":          user.FirstName,
			"mobile":        profile.Mobile,
			"location":      profile.Location,
			"profile_photo": profile.ProfilePhoto,
		},
	})
}

// findUserByMobile resolves a user through the profile mobile first, then a
// username equal to the mobile number.
func findUserByMobile(mobile string) (*models.User, *models.UserProfile) {
	var profile models.UserProfile
	if err := configuration.DB.Where("mobile = ?", mobile).First(&profile).Error; err == nil {
		var user models.User
		if err := configuration.DB.First(&user, profile.UserID).Error; err == nil {
			return &user, &profile
		}
	}

	var user models.User
	if err := configuration.DB.Where("username = ?", mobile).First(&user).Error; err == nil {
		var p models.UserProfile
		if err := configuration.DB.Where("user_id = ?", user.UserID).First(&p).Error; err == nil {
			return &user, &p
		}
		return &user, nil
	}
	return nil, nil
}
