package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/wassalni/covoiturage-backend/internal/auth"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/handlers"
	"github.com/wassalni/covoiturage-backend/internal/middleware"
	"github.com/wassalni/covoiturage-backend/internal/notify"
	"github.com/wassalni/covoiturage-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "covoiturage"
	}
	database := client.Database(dbName)

	trips := &db.MongoTripCollection{Collection: database.Collection("trips")}
	reservations := &db.MongoReservationCollection{Collection: database.Collection("reservations")}
	feedbacks := &db.MongoFeedbackCollection{Collection: database.Collection("feedbacks")}
	reclamations := &db.MongoReclamationCollection{Collection: database.Collection("reclamations")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	var notifier notify.Publisher = notify.NoopPublisher{}
	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		mqttPublisher, err := notify.NewMQTTPublisher(brokerURL, "covoiturage-backend")
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, notifications disabled")
		} else {
			defer mqttPublisher.Close()
			notifier = mqttPublisher
			log.WithField("broker", brokerURL).Info("Connected to MQTT broker")
		}
	}

	locks := service.NewTripLocks()
	tripService := service.NewTripService(trips, reservations, notifier, locks)
	reservationService := service.NewReservationService(reservations, trips, users, notifier, locks)
	feedbackService := service.NewFeedbackService(feedbacks, trips, users)
	reclamationService := service.NewReclamationService(reclamations, users)

	authHandler := handlers.NewAuthHandler(authService, users)
	tripHandler := handlers.NewTripHandler(tripService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	reclamationHandler := handlers.NewReclamationHandler(reclamationService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.HandleFunc("POST /api/trips", tripHandler.Create)
	mux.HandleFunc("GET /api/trips", tripHandler.List)
	mux.HandleFunc("GET /api/trips/estimate", tripHandler.Estimate)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.Get)
	mux.HandleFunc("PATCH /api/trips/{id}", tripHandler.Update)
	mux.HandleFunc("DELETE /api/trips/{id}", tripHandler.Delete)
	mux.HandleFunc("GET /api/drivers/{id}/trips", tripHandler.ListByDriver)

	mux.HandleFunc("POST /api/reservations", reservationHandler.Create)
	mux.HandleFunc("GET /api/reservations/{id}", reservationHandler.Get)
	mux.HandleFunc("POST /api/reservations/{id}/accept", reservationHandler.Accept)
	mux.HandleFunc("POST /api/reservations/{id}/refuse", reservationHandler.Refuse)
	mux.HandleFunc("POST /api/reservations/{id}/cancel", reservationHandler.Cancel)
	mux.HandleFunc("GET /api/trips/{id}/reservations", reservationHandler.ListByTrip)
	mux.HandleFunc("GET /api/drivers/{id}/reservations", reservationHandler.ListByDriver)
	mux.HandleFunc("GET /api/passengers/{id}/reservations", reservationHandler.ListByPassenger)

	mux.HandleFunc("POST /api/feedbacks", feedbackHandler.Create)
	mux.HandleFunc("GET /api/feedbacks/{id}", feedbackHandler.Get)
	mux.HandleFunc("DELETE /api/feedbacks/{id}", feedbackHandler.Delete)
	mux.HandleFunc("GET /api/trips/{id}/feedbacks", feedbackHandler.ListByTrip)
	mux.HandleFunc("GET /api/passengers/{id}/feedbacks", feedbackHandler.ListByPassenger)
	mux.HandleFunc("GET /api/drivers/{id}/feedbacks", feedbackHandler.ListByDriver)
	mux.HandleFunc("GET /api/drivers/{id}/rating", feedbackHandler.AverageForDriver)

	mux.HandleFunc("POST /api/reclamations", reclamationHandler.Create)
	mux.HandleFunc("GET /api/reclamations", reclamationHandler.List)
	mux.HandleFunc("GET /api/reclamations/{id}", reclamationHandler.Get)
	mux.HandleFunc("POST /api/reclamations/{id}/resolve", reclamationHandler.Resolve)
	mux.HandleFunc("POST /api/reclamations/{id}/reject", reclamationHandler.Reject)
	mux.HandleFunc("DELETE /api/reclamations/{id}", reclamationHandler.Delete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, authMiddleware.Authenticate(mux)))
}
