package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/config"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/events"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/httpserver"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/csrf"
	loggingmw "github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var pub events.Publisher = events.Nop{}
	if configuration.KAFKA_ADDRESS != "" {
		pub = events.NewKafkaPublisher(configuration.KAFKA_ADDRESS)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	r := repo.New(db)
	authSvc := &service.AuthService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	userSvc := &service.UserService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r, Pub: pub}
	cartSvc := &service.CartService{Repo: r}
	checkoutSvc := &service.CheckoutService{Repo: r, Pub: pub}
	orderSvc := &service.OrderService{Repo: r, Pub: pub}
	pixSvc := &service.PixService{Repo: r}
	reportSvc := &service.ReportService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		// guest checkout and receipt lookup happen without a session
		SkipPaths: []string{"/api/checkout", "/api/orders/guest", "/api/auth/register", "/api/auth/login"},
	}))

	deps := httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, Users: userSvc},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc},
		Orders:    &httpserver.OrderHTTP{Svc: orderSvc, Checkout: checkoutSvc},
		Pix:       &httpserver.PixHTTP{Svc: pixSvc},
		Users:     &httpserver.UserHTTP{Svc: userSvc},
		Reports:   &httpserver.ReportHTTP{Svc: reportSvc},
		JWTSecret: jwtSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := pub.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
