package main

import (
	"log"
	"net/http"
	"os"

	"gonext_go/auth"
	"gonext_go/config"
	"gonext_go/controllers"
	"gonext_go/data"
	"gonext_go/photostore"

	"github.com/gorilla/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация базы данных
	db, err := data.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store, err := photostore.New(cfg.PhotoBackend, cfg.PhotosDir)
	if err != nil {
		log.Fatalf("Failed to initialize photo store: %v", err)
	}

	journal := data.NewJournal(db, store)
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	pins := auth.NewPINService(journal.Settings, data.SettingPINHash)

	router := controllers.NewRouter(controllers.NewHandler(journal, pins, tokens))

	headersOk := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	originsOk := handlers.AllowedOrigins(cfg.AllowedOrigins)
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	handler := handlers.LoggingHandler(os.Stdout, handlers.CORS(originsOk, headersOk, methodsOk)(router))

	log.Printf("Запуск сервера на %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		log.Fatal(err)
	}
}
