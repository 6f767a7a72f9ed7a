package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	admin_api "ms-storefront/internal/admin/api"
	catalog_api "ms-storefront/internal/catalog/api"
	checkout_api "ms-storefront/internal/checkout/api"
	payment_api "ms-storefront/internal/payment/api"

	"ms-storefront/internal/admin"
	"ms-storefront/internal/auth"
	"ms-storefront/internal/catalog"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/config"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/payment"
	ticket_db "ms-storefront/internal/tickets/db"
	"ms-storefront/internal/tickets/qr"
	tickets "ms-storefront/internal/tickets/service"
	"ms-storefront/internal/tickets/ticket_api"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	if cfg.Database.DSN == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		if err = sqldb.Ping(); err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Storefront Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	catalogStore, err := catalog.NewStore()
	if err != nil {
		log.Fatal("CATALOG", fmt.Sprintf("Failed to load event catalog: %v", err))
	}
	log.Info("CATALOG", fmt.Sprintf("Loaded %d events", catalogStore.Len()))

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.RequiredTopics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, events will not be published")
	}

	ticketDB := &ticket_db.DB{Bun: bunDB}
	ticketService := tickets.NewTicketService(ticketDB)

	intentStore := checkout.NewRedisIntentStore(redisClient, cfg.Checkout.IntentTTL)

	var checkoutPublisher checkout.EventPublisher
	var ticketPublisher payment.EventPublisher
	if producer != nil {
		checkoutPublisher = producer
		ticketPublisher = producer
	}

	checkoutService := checkout.NewService(catalogStore, intentStore, checkoutPublisher, cfg.Checkout.MaxQuantity, log)

	qrGenerator := qr.NewGenerator(os.Getenv("QR_SECRET_KEY"))
	paymentService := payment.NewService(catalogStore, intentStore, ticketDB, ticketPublisher, qrGenerator, cfg.Payment.ProcessingDelay, log)

	adminGate := admin.NewGate(cfg.Admin)
	adminStats := admin.NewStatsService(bunDB)

	supabase := auth.NewSupabaseClient(cfg.Supabase, &http.Client{Timeout: 10 * time.Second})

	catalogHandler := catalog_api.NewHandler(catalogStore, log)
	checkoutHandler := checkout_api.NewHandler(checkoutService, log)
	paymentHandler := payment_api.NewHandler(paymentService, log)
	ticketHandler := ticket_api.NewHandler(ticketService, log)
	authHandler := auth.NewHandler(supabase, log)
	adminHandler := admin_api.NewHandler(adminGate, adminStats, log)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, kafka.TopicTicketsIssued, cfg.Kafka.GroupID)
		defer consumer.Close()
		go consumer.StartTicketsIssued(ctx, func(event kafka.TicketsIssuedEvent) {
			for range event.TicketNumbers {
				if err := ticketDB.IncrementTicketCount(ctx, event.EventID, event.IssuedAt); err != nil {
					log.Error("KAFKA", fmt.Sprintf("Failed to increment ticket count: %v", err))
					return
				}
			}
		})
		log.Info("KAFKA", "Tickets issued consumer started")
	}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowCredentials: false,
	}))

	// --- Public routes ---
	r.Get("/api/events", catalogHandler.ListEvents)
	r.Get("/api/events/featured", catalogHandler.FeaturedEvents)
	r.Get("/api/events/{eventID}", catalogHandler.GetEvent)
	r.Get("/api/tickets/count", ticketHandler.GetTotalTicketsCount)

	// Auth edge handlers manage their own method and preflight handling.
	r.HandleFunc("/auth/login", authHandler.Login)
	r.HandleFunc("/auth/register", authHandler.Register)

	r.Post("/api/admin/login", adminHandler.Login)

	// --- Protected routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Supabase.JWTSecret))

		r.Route("/api/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.BeginCheckout)
			r.Get("/", checkoutHandler.CurrentIntent)
			r.Post("/pay", paymentHandler.CompletePayment)
		})
		log.Info("ROUTER", "Checkout routes registered under /api/checkout")

		r.Route("/api/tickets", func(r chi.Router) {
			r.Get("/", ticketHandler.ListTickets)
			r.Get("/{ticketNumber}/qr", ticketHandler.TicketQR)
		})
		log.Info("ROUTER", "Ticket routes registered under /api/tickets")
	})

	// --- Admin routes ---
	r.Group(func(r chi.Router) {
		r.Use(adminGate.Middleware)
		r.Get("/api/admin/stats", adminHandler.Dashboard)
	})
	log.Info("ROUTER", "Admin routes registered under /api/admin")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Storefront Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Storefront Service shutdown complete")
	}
}
