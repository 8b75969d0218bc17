package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"squadpoll_server/config"
	"squadpoll_server/routes"
	"squadpoll_server/services"
	"squadpoll_server/socket"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

func main() {
	config.LoadEnv()

	// Initialize DynamoDB client and store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := &services.DynamoStore{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	// Initialize the WhatsApp gateway (mock mode without credentials)
	whatsappService := services.NewWhatsAppService(
		os.Getenv("TWILIO_ACCOUNT_SID"),
		os.Getenv("TWILIO_AUTH_TOKEN"),
		os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	)

	// Webhook deduplication (disabled without Redis)
	dedupService := services.NewDedupService(os.Getenv("REDIS_URL"))

	// Socket.IO server for live dashboard updates
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize Services
	pollService := &services.PollService{Store: store, Messenger: whatsappService}
	inboundService := &services.InboundService{
		Store:     store,
		Messenger: whatsappService,
		Broadcast: &socket.Hub{Server: socketServer},
	}
	reminderService := &services.ReminderService{Store: store, Messenger: whatsappService}

	// Reminder sweep every 15 minutes
	cronRunner := cron.New()
	_, err := cronRunner.AddFunc("*/15 * * * *", func() {
		log.Println("[Cron] Checking for pending reminders...")
		reminderService.CheckAndSendReminders(context.Background())
	})
	if err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()
	log.Println("[Cron] Reminder job scheduled (every 15 minutes)")

	// Set up the server port
	port := config.GetEnv("PORT", "8080")
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to SquadPoll")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "ok"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterAuthRoutes(r, store)
	routes.RegisterPlayerRoutes(r, store)
	routes.RegisterEventRoutes(r, store, pollService)
	routes.RegisterPollRoutes(r, store, pollService)
	routes.RegisterWebhookRoutes(r, inboundService, dedupService)
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{config.GetEnv("CLIENT_URL", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
