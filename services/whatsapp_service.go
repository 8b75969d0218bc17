package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"squadpoll_server/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// sendTimeout bounds every gateway call; a timeout counts as a failed send
const sendTimeout = 10 * time.Second

// SendResult is the outcome of one WhatsApp send attempt. Sends never
// return an error to the caller; failures are reported in the result.
type SendResult struct {
	Success bool
	Sid     string
	Error   string
}

// Messenger is the outbound message gateway the poll engine depends on
type Messenger interface {
	Send(ctx context.Context, to, body string) SendResult
}

// WhatsAppService sends WhatsApp messages through Twilio. Without
// credentials it runs permanently in mock mode and only logs messages.
type WhatsAppService struct {
	client *twilio.RestClient
	from   string
}

// NewWhatsAppService builds the gateway from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and fromNumber. Credentials are resolved once at
// startup; absence means mock mode for the life of the process.
func NewWhatsAppService(accountSid, authToken, fromNumber string) *WhatsAppService {
	if fromNumber == "" {
		fromNumber = "whatsapp:+14155238886"
	}
	if accountSid == "" || authToken == "" {
		log.Println("⚠️ Twilio credentials not configured, WhatsApp messages will be logged only")
		return &WhatsAppService{from: fromNumber}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	client.SetTimeout(sendTimeout)
	return &WhatsAppService{client: client, from: fromNumber}
}

// Send delivers one message, best effort, single attempt
func (s *WhatsAppService) Send(ctx context.Context, to, body string) SendResult {
	whatsappTo := utils.WhatsAppAddress(to)

	if s.client == nil {
		log.Printf("[WhatsApp Mock] To: %s | Body: %s", whatsappTo, body)
		return SendResult{Success: true, Sid: fmt.Sprintf("mock_%d", time.Now().UnixMilli())}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(whatsappTo)
	params.SetBody(body)

	message, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ WhatsApp send failed to %s: %v", whatsappTo, err)
		return SendResult{Success: false, Error: err.Error()}
	}

	sid := ""
	if message.Sid != nil {
		sid = *message.Sid
	}
	return SendResult{Success: true, Sid: sid}
}
