package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/chirp/internal/server"
	"github.com/dmitrijs2005/chirp/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
