package main

import (
	"log"
	"net/http"

	"github.com/caarlos0/env/v11"

	"fiftytwo-lite/blackjack/catalog"

	"fiftytwo-lite/apps/server/internal/auth"
	"fiftytwo-lite/apps/server/internal/gateway"
	"fiftytwo-lite/apps/server/internal/progress"
	"fiftytwo-lite/apps/server/internal/runlog"
	"fiftytwo-lite/apps/server/internal/session"
)

type serverConfig struct {
	Addr        string `env:"SERVER_ADDR" envDefault:":8080"`
	CatalogPath string `env:"CATALOG_PATH"`
}

func main() {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("[Server] Failed to parse config: %v", err)
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if err := cat.LoadFile(cfg.CatalogPath); err != nil {
			log.Fatalf("[Server] Failed to load catalog %s: %v", cfg.CatalogPath, err)
		}
		log.Printf("[Server] Loaded catalog overrides from %s", cfg.CatalogPath)
	}

	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()
	runlogService, runlogMode, err := runlog.NewServiceFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init runlog service: %v", err)
	}
	defer runlogService.Close()
	progressService, progressMode, err := progress.NewServiceFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init progress service: %v", err)
	}
	defer progressService.Close()

	sessions := session.NewManager(cat, runlogService, progressService)
	defer sessions.StopAll()

	gw := gateway.New(authService, sessions)
	authHTTP := auth.NewHTTPHandler(authService)
	runlogHTTP := runlog.NewHTTPHandler(authService, runlogService)
	progressHTTP := progress.NewHTTPHandler(authService, progressService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	runlogHTTP.RegisterRoutes(mux)
	progressHTTP.RegisterRoutes(mux)

	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Runlog mode: %s", runlogMode)
	log.Printf("[Server] Progress mode: %s", progressMode)
	log.Printf("[Server] Catalog: %d trinkets, %d enemies, %d events",
		cat.TrinketCount(), cat.EnemyCount(), cat.EventCount())
	log.Printf("[Server] Starting WebSocket server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
