package routes

import (
	"squadpoll_server/controllers"
	"squadpoll_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up registration and login under /api/auth
func RegisterAuthRoutes(r *mux.Router, store services.Store) {
	controller := controllers.NewAuthController(store)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", controller.HandleRegister).Methods("POST")
	authRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")
}
