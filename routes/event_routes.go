package routes

import (
	"squadpoll_server/controllers"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up event routes under /api/events
func RegisterEventRoutes(r *mux.Router, store services.Store, pollService *services.PollService) {
	controller := controllers.NewEventController(store, pollService)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.Use(utils.AuthMiddleware)

	eventRouter.HandleFunc("", controller.HandleListEvents).Methods("GET")
	eventRouter.HandleFunc("", controller.HandleCreateEvent).Methods("POST")
	eventRouter.HandleFunc("/{id}", controller.HandleGetEvent).Methods("GET")
	eventRouter.HandleFunc("/{id}", controller.HandleUpdateEvent).Methods("PUT")
	eventRouter.HandleFunc("/{id}", controller.HandleDeleteEvent).Methods("DELETE")
}
