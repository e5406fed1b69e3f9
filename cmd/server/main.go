package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/movix/movie-booking/internal/booking"
	"github.com/movix/movie-booking/internal/config"
	"github.com/movix/movie-booking/internal/database"
	"github.com/movix/movie-booking/internal/handler"
	"github.com/movix/movie-booking/internal/middleware"
	"github.com/movix/movie-booking/internal/queue"
	"github.com/movix/movie-booking/internal/repository"
	"github.com/movix/movie-booking/internal/router"
	queue_publisher "github.com/movix/movie-booking/internal/service"
	"github.com/movix/movie-booking/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	movieRepo := repository.NewMovieRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	seatRepo := repository.NewSeatStatusRepo(db)
	bookingRepo := repository.NewBookingRepo(db, seatRepo)

	// Redis is optional: without it the handoff store is process-local
	// and the browse cache / rate limiter are disabled.
	redisClient := config.NewRedisClient()
	var store booking.HandoffStore
	if redisClient != nil {
		store = session.NewRedisStore(redisClient, "pending-order", cfg.SessionTTL)
	} else {
		logrus.Warn("redis unavailable; using in-memory handoff store")
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	tickets := booking.NewTicketIssuer(cfg.TicketSecret, cfg.TicketTTL)
	sessions := session.NewManager(store, cfg.SessionTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartSweeper(ctx, cfg.SweepInterval)

	var events booking.Publisher
	if cfg.AMQPURL != "" {
		events = queue_publisher.New(cfg.AMQPURL)
		if cfg.BookingEventsOn {
			go queue.StartBookingConsumer(cfg.AMQPURL)
		}
	} else {
		logrus.Warn("RABBITMQ_URL not set; booking events disabled")
	}

	submitter := booking.NewSubmitter(store, tickets, bookingRepo, events, cfg.SubmitTimeout)

	movieHandler := handler.NewMovieHandler(movieRepo, showtimeRepo, seatRepo)
	sessionHandler := handler.NewSessionHandler(movieRepo, showtimeRepo, seatRepo, sessions, tickets)
	bookingHandler := handler.NewBookingHandler(submitter, sessions, bookingRepo)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterBrowse(e, movieHandler,
		middleware.RateLimit(redisClient, cfg.RateLimitPerMin),
		middleware.ResponseCache(redisClient, cfg.BrowseCacheTTL),
	)
	router.RegisterBooking(e, sessionHandler, bookingHandler)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
