package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anushkaEsdev/alumni-client/internal/stubserver"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		secret = "dev-secret"
		logger.Warn("JWT_SECRET_KEY not set; using the development default")
	}

	stub := stubserver.New(stubserver.Config{
		JWTSecret: secret,
		RateLimit: true,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: stub.Handler(),
	}

	go func() {
		logger.Infof("stub backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
}
