package main

import (
	"github.com/joho/godotenv"

	"factorypay/internal/app/server"
)

func main() {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	server.Run()
}
