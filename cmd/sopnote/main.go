package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sopnote/sopnote/pkg/sopnote"
)

func main() {
	// Load .env if present; absence is fine outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sopnote.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
