package routes

import (
	"squadpoll_server/controllers"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/gorilla/mux"
)

// RegisterPlayerRoutes sets up roster routes under /api/players
func RegisterPlayerRoutes(r *mux.Router, store services.Store) {
	controller := controllers.NewPlayerController(store)

	playerRouter := r.PathPrefix("/api/players").Subrouter()
	playerRouter.Use(utils.AuthMiddleware)

	playerRouter.HandleFunc("", controller.HandleListPlayers).Methods("GET")
	playerRouter.HandleFunc("", controller.HandleCreatePlayer).Methods("POST")
	playerRouter.HandleFunc("/import", controller.HandleImportPlayers).Methods("POST")
	playerRouter.HandleFunc("/{id}", controller.HandleUpdatePlayer).Methods("PUT")
	playerRouter.HandleFunc("/{id}/deactivate", controller.HandleDeactivatePlayer).Methods("PATCH")
}
