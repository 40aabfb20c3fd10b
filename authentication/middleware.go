package authentication

import (
	"net/http"
	"strings"

	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
)

type AccountKind int

const (
	AccountPatient AccountKind = iota
	AccountDoctor
)

// Account is the resolved identity of a request. Handlers branch on Kind;
// Doctor is populated only for the doctor kind, so doctor-only code never
// needs to re-check the profile link.
type Account struct {
	Kind    AccountKind
	User    models.User
	Profile models.UserProfile
	Doctor  *models.Doctor
}

func (a Account) Role() string {
	if a.Kind == AccountDoctor {
		return "doctor"
	}
	return "patient"
}

const accountKey = "account"

// AuthMiddleware validates the bearer token and resolves the Account for
// downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))

		claims, err := VerifyAccessToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		account, err := ResolveAccount(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// DoctorOnly rejects requests whose account is not the doctor kind. Must run
// after AuthMiddleware.
func DoctorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account.Kind != AccountDoctor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Not a doctor account."})
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the Account set by AuthMiddleware.
func CurrentAccount(c *gin.Context) Account {
	return c.MustGet(accountKey).(Account)
}

// ResolveAccount loads the user and profile and classifies the account. A
// user without a profile row gets one created, matching login behavior.
func ResolveAccount(userID uint) (Account, error) {
	var user models.User
	if err := configuration.DB.First(&user, userID).Error; err != nil {
		return Account{}, err
	}

	var profile models.UserProfile
	if err := configuration.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		profile = models.UserProfile{UserID: userID}
		if err := configuration.DB.Create(&profile).Error; err != nil {
			return Account{}, err
		}
	}

	account := Account{Kind: AccountPatient, User: user, Profile: profile}
	if profile.IsDoctor && profile.DoctorID != nil {
		var doctor models.Doctor
		if err := configuration.DB.First(&doctor, *profile.DoctorID).Error; err == nil {
			account.Kind = AccountDoctor
			account.Doctor = &doctor
		}
	}
	return account, nil
}
