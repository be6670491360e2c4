package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"boardkit/internal/app"
	mcpserver "boardkit/internal/mcp"
	"boardkit/internal/service"
)

func main() {
	dataDir := flag.String("data-dir", "", "data directory (default ~/.local/share/boardkit)")
	board := flag.String("board", "", "board file to open on startup")
	flag.Parse()

	// Logs go to stderr; stdout belongs to the MCP protocol.
	log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.New(app.Options{
		DataDir: *dataDir,
		Emitter: service.LogEmitter{},
	})
	if err := a.Startup(ctx); err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer a.Shutdown(context.Background())

	if *board != "" {
		if _, err := a.OpenBoard(*board); err != nil {
			log.Fatalf("open board %s: %v", *board, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	srv := mcpserver.New(a)
	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}
