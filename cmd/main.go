package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/SamuelRCrider/redact-go/mcpserver"
)

func main() {
	config, err := mcpserver.LoadConfig(os.Getenv(mcpserver.EnvConfigPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP stream, so logs go to stderr
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   config.Name,
		Level:  hclog.LevelFromString(config.LogLevel),
		Output: os.Stderr,
	})
	hclog.SetDefault(logger)
	if logStr := os.Getenv("LOG_LEVEL"); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			logger.SetLevel(level)
		}
	}

	if config.Audit.Console {
		logger.Warn("audit console output disabled; stdout is reserved for MCP")
		config.Audit.Console = false
	}

	srv, err := mcpserver.NewServer(config, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		logger.Error("server stopped", "error", err)
		srv.Close()
		os.Exit(1)
	}
}
