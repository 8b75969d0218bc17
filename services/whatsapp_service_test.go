package services

import (
	"context"
	"strings"
	"testing"
)

func TestSendWithoutCredentialsUsesMockMode(t *testing.T) {
	svc := NewWhatsAppService("", "", "")

	if svc.client != nil {
		t.Fatal("expected no Twilio client without credentials")
	}
	if svc.from != "whatsapp:+14155238886" {
		t.Errorf("default from = %q", svc.from)
	}

	result := svc.Send(context.Background(), "+1111", "hello")
	if !result.Success {
		t.Fatalf("mock send failed: %+v", result)
	}
	if !strings.HasPrefix(result.Sid, "mock_") {
		t.Errorf("mock sid = %q, want mock_ prefix", result.Sid)
	}
}

func TestNewWhatsAppServiceWithCredentials(t *testing.T) {
	svc := NewWhatsAppService("ACxxxxxxxx", "token", "whatsapp:+19998887777")

	if svc.client == nil {
		t.Fatal("expected a live Twilio client with credentials")
	}
	if svc.from != "whatsapp:+19998887777" {
		t.Errorf("from = %q", svc.from)
	}
}
