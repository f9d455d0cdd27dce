package main

import (
	"context"
	"log"

	"edu-chat-be/internal/bootstrap"
	"edu-chat-be/internal/config"
	"edu-chat-be/internal/server"
	"edu-chat-be/internal/tracer"
	"edu-chat-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background workers
	go func() {
		log.Println("Background: Starting usage consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()
	container.AuthService.StartTokenSweep(context.Background())

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
