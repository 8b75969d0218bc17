package routes

import (
	"squadpoll_server/controllers"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/gorilla/mux"
)

// RegisterPollRoutes sets up poll routes under /api/polls
func RegisterPollRoutes(r *mux.Router, store services.Store, pollService *services.PollService) {
	controller := controllers.NewPollController(store, pollService)

	pollRouter := r.PathPrefix("/api/polls").Subrouter()
	pollRouter.Use(utils.AuthMiddleware)

	pollRouter.HandleFunc("/{eventId}", controller.HandleGetPoll).Methods("GET")
	pollRouter.HandleFunc("/{eventId}/send", controller.HandleSendPoll).Methods("POST")
}
