package routes

import (
	"squadpoll_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterWebhookRoutes sets up the Twilio inbound webhook. No auth
// middleware: Twilio posts here directly.
func RegisterWebhookRoutes(r *mux.Router, inbound controllers.InboundProcessor, dedup controllers.DedupChecker) {
	controller := controllers.NewWebhookController(inbound, dedup)

	webhookRouter := r.PathPrefix("/api/webhook").Subrouter()
	webhookRouter.HandleFunc("/twilio", controller.HandleTwilioWebhook).Methods("POST")
}
