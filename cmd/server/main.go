package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/danmakarov/beauty-salon-api/internal/config"
	"github.com/danmakarov/beauty-salon-api/internal/database"
	"github.com/danmakarov/beauty-salon-api/internal/elevation"
	"github.com/danmakarov/beauty-salon-api/internal/handler"
	"github.com/danmakarov/beauty-salon-api/internal/queue"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
	"github.com/danmakarov/beauty-salon-api/internal/router"
	"github.com/danmakarov/beauty-salon-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Elevation flags live in Redis; Connect degrades to the
	// in-process store when the server is unreachable.
	store := elevation.Connect(config.RedisOptions())

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	clients := repository.NewClientRepo(db)
	services := repository.NewServiceRepo(db)
	masters := repository.NewMasterRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	reviews := repository.NewReviewRepo(db)

	otpTTL := time.Duration(cfg.OTPTTLMin) * time.Minute

	deps := router.Deps{
		Auth:         handler.NewAuthHandler(users, tokens),
		OTP:          handler.NewOTPHandler(cfg.OTPDemoCode, otpTTL, store),
		Profile:      handler.NewProfileHandler(users),
		Clients:      handler.NewClientHandler(clients),
		Services:     handler.NewServiceHandler(services),
		Masters:      handler.NewMasterHandler(masters),
		Appointments: handler.NewAppointmentHandler(appointments, clients, service.NewBookingEvents()),
		Reviews:      handler.NewReviewHandler(reviews, clients),
		Tokens:       tokens,
		Elevation:    store,
	}

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	router.Register(e, deps)

	// Booking events are consumed in the background; the consumer
	// keeps retrying if the broker is down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
