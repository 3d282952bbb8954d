package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valyala/fasthttp"

	"billing-engine/internal/billing"
	"billing-engine/internal/config"
	"billing-engine/internal/contracts"
	"billing-engine/internal/engine"
	"billing-engine/internal/handler"
	"billing-engine/internal/store"
	"billing-engine/internal/store/sqlite"
	"billing-engine/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var repo store.Repository = store.NewMemory()
	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open situation store: %v", err)
		}
		defer db.Close()
		repo = db
		log.Printf("Situations stored in %s", cfg.DBPath)
	} else {
		log.Printf("Situations kept in memory")
	}

	var source contracts.Source
	switch {
	case cfg.ContractsURL != "":
		source = contracts.NewHTTPSource(cfg.ContractsURL, cfg.ContractsTimeout)
		log.Printf("Contracts read from %s", cfg.ContractsURL)
	case cfg.ContractsFile != "":
		source = contracts.FileSource{Path: cfg.ContractsFile}
		log.Printf("Contracts read from %s", cfg.ContractsFile)
	default:
		source = contracts.NewMemorySource()
		log.Printf("No contract source configured; new drafts will have no lines")
	}

	calc := billing.NewCalculator(cfg.RetentionRate)
	svc := engine.NewService(repo, contracts.NewRegistry(source), engine.Options{
		Calculator:  &calc,
		SingleDraft: cfg.SingleDraft,
	})

	switch cfg.Transport {
	case config.TransportHTTP:
		log.Printf("Billing engine starting on %s", cfg.Addr())
		if err := fasthttp.ListenAndServe(cfg.Addr(), handler.New(svc).Handle); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case config.TransportMCPStdio:
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		log.Println("Billing engine MCP server starting (stdio)")
		if err := tools.NewServer(svc).Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case config.TransportMCPHTTP:
		srv := tools.NewServer(svc)
		h := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		log.Printf("Billing engine MCP server listening on %s", cfg.Addr())
		if err := http.ListenAndServe(cfg.Addr(), h); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}
}
