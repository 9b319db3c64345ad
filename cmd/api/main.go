package main

import (
	"log"

	"github.com/projectpulse/pulse-backend/internal/cli"
)

func main() {
	if err := cli.NewAPICommand().Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
