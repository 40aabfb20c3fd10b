package authentication

import (
	"crypto/rand"
	"log"
	"math/big"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// GenerateOTP returns a numeric code of the given length from a
// cryptographically secure source.
func GenerateOTP(length int) string {
	characters := "0123456789"
	otp := make([]byte, length)

	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(characters))))
		if err != nil {
			panic("failed to read random source: " + err.Error())
		}
		otp[i] = characters[n.Int64()]
	}
	return string(otp)
}

// SMSSender delivers an OTP code to a mobile number. Delivery transport is
// an external collaborator; the code itself stays server-side state.
type SMSSender interface {
	SendOTP(mobile, code string) error
}

// TwilioSender sends the code as an SMS through the Twilio API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender() *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTHTOKEN"),
	})
	return &TwilioSender{client: client, from: os.Getenv("TWILIO_PHONENUMBER")}
}

func (t *TwilioSender) SendOTP(mobile, code string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(mobile)
	params.SetFrom(t.from)
	params.SetBody("Your HealthSync OTP is " + code)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Println("Error sending SMS:", err)
		return err
	}
	return nil
}

// LogSender prints the code to the server log instead of sending it.
type LogSender struct{}

func (LogSender) SendOTP(mobile, code string) error {
	log.Printf("OTP for %s: %s", mobile, code)
	return nil
}

// NewSMSSender picks the Twilio sender when credentials are configured and
// falls back to logging otherwise.
func NewSMSSender() SMSSender {
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		return NewTwilioSender()
	}
	return LogSender{}
}
