package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	userapi "github.com/goliatone/go-user-api"
)

func main() {
	cfg, err := userapi.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := userapi.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := userapi.Migrate(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	tokens := userapi.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.TokenExpiration,
		cfg.Issuer,
		nil,
	)

	repo := userapi.NewUsersRepository(db)
	auther := userapi.NewAuthenticator(repo, tokens)

	app := fiber.New(fiber.Config{
		AppName:      "user-api",
		ErrorHandler: userapi.NewErrorHandler(nil),
	})

	userapi.RegisterUserRoutes(app,
		userapi.WithControllerRepo(repo),
		userapi.WithControllerTokens(tokens),
		userapi.WithControllerAuther(auther),
	)

	go func() {
		if err := app.Listen(cfg.Address); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := waitExitSignal()
	log.Printf("received %s, shutting down", sig)

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
