package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"reservas/internal/database"
	"reservas/internal/ledger"
	"reservas/internal/middleware"
	"reservas/internal/modules/auth"
	"reservas/internal/modules/booking"
	"reservas/internal/modules/catalog"
	"reservas/internal/modules/events"
	"reservas/internal/notification"
	jwtsvc "reservas/internal/pkg/jwt"
	"reservas/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "reservas.db"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	lockWait := 2 * time.Second
	if v := os.Getenv("RESERVE_LOCK_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid RESERVE_LOCK_WAIT %q: %v", v, err)
		}
		lockWait = d
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	eventRepo := repository.NewEventRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := notification.NewHub()
	defer hub.Close()
	sender := notification.NewSender(hub)

	bookingLedger := ledger.New(bookingRepo, lockWait)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(roomRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(roomRepo, bookingLedger, bookingRepo, sender)
	bookingHandler := booking.NewHandler(bookingService)

	eventService := events.NewService(eventRepo, bookingService)
	eventHandler := events.NewHandler(eventService)

	notifHandler := notification.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		eventHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			catalogHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			eventHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
