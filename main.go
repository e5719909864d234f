package main

import (
	"os"

	"github.com/manatly/manat/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetLevel(log.InfoLevel)
	if level := os.Getenv("MANAT_LOG_LEVEL"); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			log.Warnf("unknown log level %q, staying on info: %v", level, err)
			return
		}
		log.SetLevel(parsed)
	}
}

func main() {
	log.Info("starting manat")
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
