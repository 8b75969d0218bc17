package controllers

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
)

// InboundProcessor interprets an inbound WhatsApp message and always
// returns reply text.
type InboundProcessor interface {
	ProcessInboundResponse(ctx context.Context, from, body string) string
}

// DedupChecker reports whether a transport message id is seen for the
// first time.
type DedupChecker interface {
	FirstDelivery(ctx context.Context, messageSid string) bool
}

// WebhookController receives Twilio's inbound WhatsApp webhook
type WebhookController struct {
	Inbound InboundProcessor
	Dedup   DedupChecker
}

// NewWebhookController initializes the webhook controller
func NewWebhookController(inbound InboundProcessor, dedup DedupChecker) *WebhookController {
	return &WebhookController{Inbound: inbound, Dedup: dedup}
}

// HandleTwilioWebhook processes one form-encoded inbound message and
// answers with TwiML. Malformed payloads get an empty TwiML response;
// duplicate deliveries (Twilio retries re-post the same MessageSid) are
// acknowledged without re-processing.
func (c *WebhookController) HandleTwilioWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeTwiML(w, http.StatusBadRequest, "")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	messageSid := r.PostFormValue("MessageSid")

	if from == "" || body == "" {
		writeTwiML(w, http.StatusBadRequest, "")
		return
	}

	if c.Dedup != nil && !c.Dedup.FirstDelivery(r.Context(), messageSid) {
		log.Printf("🔁 Duplicate webhook delivery %s ignored", messageSid)
		writeTwiML(w, http.StatusOK, "")
		return
	}

	reply := c.Inbound.ProcessInboundResponse(r.Context(), from, body)
	writeTwiML(w, http.StatusOK, reply)
}

func writeTwiML(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	if message == "" {
		fmt.Fprint(w, "<Response></Response>")
		return
	}
	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(message))
	fmt.Fprintf(w, "<Response><Message>%s</Message></Response>", escaped.String())
}
