package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// The MCP stdio transport owns stdout, so all logging goes to stderr.
func main() {
	dbPath := flag.String("db", "liftlog.db", "path to the SQLite database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	db, err := storage.New(*dbPath, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	s := mcp.New(db, Version, log)
	log.Info("LiftLog MCP server starting", "version", Version, "db", *dbPath)

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
