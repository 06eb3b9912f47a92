// Command subjectctl manages the subject catalog data file directly,
// using the same validation and query paths as the HTTP server.
package main

import (
	"os"

	"github.com/stemsi/subject-catalog/internal/config"
	"github.com/stemsi/subject-catalog/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := newRootCmd(cfg, log).Execute(); err != nil {
		os.Exit(1)
	}
}
