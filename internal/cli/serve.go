package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quixabot/quixabot/internal/alocacao"
	"github.com/quixabot/quixabot/internal/cardapio"
	"github.com/quixabot/quixabot/internal/chat"
	"github.com/quixabot/quixabot/internal/config"
	"github.com/quixabot/quixabot/internal/docentes"
	"github.com/quixabot/quixabot/internal/feriados"
	"github.com/quixabot/quixabot/internal/fetch"
	"github.com/quixabot/quixabot/internal/provider"
	"github.com/quixabot/quixabot/internal/server"
	"github.com/quixabot/quixabot/internal/session"
	"github.com/quixabot/quixabot/internal/tools"
)

const outboundRPS = 4

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	color.Cyan(logo)
	fmt.Println("Starting quixabot server...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Provider.APIKey == "" {
		fmt.Println("⚠️  GOOGLE_API_KEY não definido; chamadas ao modelo irão falhar.")
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	llm, err := provider.New(cfg.Provider.Name, cfg.Provider.APIKey, cfg.Provider.APIBase, cfg.Provider.Model)
	if err != nil {
		fmt.Printf("Provider error: %v\n", err)
		os.Exit(1)
	}

	client := fetch.NewClient(outboundRPS)
	allocations := alocacao.NewStore(client, cfg.Sources.AlocacaoDocURL, cfg.Cache.AlocacaoTTL, log)
	directory := docentes.NewDirectory(client, cfg.Sources.DocentesURL, cfg.Sources.DocentesBaseURL, cfg.Cache.DocentesTTL, log)
	menu := cardapio.NewMenu(client, cfg.Sources.CardapioURL, log)
	lookup := feriados.NewLookup(client, cfg.Sources.CalendarURL, cfg.Sources.MunicipalURL)
	checker := feriados.NewChecker(client, []feriados.Site{
		{Name: "Sigaa", URL: cfg.Sources.SigaaURL},
		{Name: "Moodle", URL: cfg.Sources.MoodleURL},
	}, log)

	registry := tools.NewRegistry()
	registry.Register(tools.NewCardapioTool(menu))
	registry.Register(tools.NewFeriadosTool(lookup))
	registry.Register(tools.NewStatusTool(checker))
	registry.Register(tools.NewProfessoresTool(directory, allocations, cfg.Sources.DocentesURL))

	var store session.Store
	if cfg.Redis.URL != "" {
		redisStore, err := session.NewRedisStore(cfg.Redis.URL, log)
		if err != nil {
			fmt.Printf("Redis error: %v\n", err)
			os.Exit(1)
		}
		store = redisStore
		fmt.Println("💾 Session store: Redis")
	} else {
		store = session.NewMemoryStore()
		fmt.Println("💾 Session store: in-memory")
	}

	convs := session.NewConversations(llm, store, cfg.Provider.Model, registry.Definitions(), log)
	chatSvc := chat.NewService(store, convs, registry, checker, log)
	srv := server.New(chatSvc, directory, allocations, cfg.Server.AllowOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("📡 API listening on http://%s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("API Server Error: %v\n", err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
}
