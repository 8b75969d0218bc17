package utils

import "strings"

const whatsappPrefix = "whatsapp:"

// NormalizeWhatsApp strips the channel scheme prefix Twilio puts on inbound
// sender addresses, leaving the bare E.164 number stored on the roster.
func NormalizeWhatsApp(number string) string {
	return strings.TrimPrefix(number, whatsappPrefix)
}

// WhatsAppAddress ensures a number carries the channel scheme prefix
// required for outbound sends.
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}
