package main

import (
	"log"

	"github.com/forumhive/forumhive-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Log.Fatal("server exited", "error", err)
	}
}
