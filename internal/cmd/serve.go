package cmd

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/agent/lanes"
	"github.com/sergiobayona/lexi-orchestrator/internal/config"
	"github.com/sergiobayona/lexi-orchestrator/internal/controller"
	"github.com/sergiobayona/lexi-orchestrator/internal/egress"
	"github.com/sergiobayona/lexi-orchestrator/internal/kv"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/observability"
	"github.com/sergiobayona/lexi-orchestrator/internal/router"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
	"github.com/sergiobayona/lexi-orchestrator/internal/webhook"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	// Single-line JSON events, one per public action.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}

	store := buildStore(cfg)
	llmClient := buildLLMClient(cfg)
	log := observability.New(slog.Default()).WithMaxDialogueText(cfg.MaxDialogueText)

	rt := router.New(llmClient, cfg.LLMRoutingEnabled, cfg.LLMTimeout()).WithLog(log)
	rt.Temperature = cfg.LLMTemperature
	registry := buildRegistry(llmClient, log)

	ctrl := &controller.Controller{
		Store:          store,
		Router:         rt,
		Registry:       registry,
		Log:            log,
		SessionTTL:     cfg.SessionTTL(),
		LockTTL:        cfg.LockTTL(),
		IdempotencyTTL: cfg.IdempotencyTTL(),
		MaxBatonHops:   cfg.MaxBatonHops,
	}

	h := &webhook.Handler{
		Controller:      ctrl,
		Store:           store,
		Sender:          egress.LogSender{},
		OrchestratedTTL: cfg.OrchestratedTTL(),
		VerifyToken:     verifyToken,
		TenantID:        tenantID,
	}

	slog.Info("lexicore_listening", "addr", cfg.HTTPAddr, "tenant_id", tenantID, "llm_routing_enabled", cfg.LLMRoutingEnabled)
	if err := http.ListenAndServe(cfg.HTTPAddr, h.Router()); err != nil {
		slog.Error("server_exited", "error", err)
		os.Exit(1)
	}
}

func buildStore(cfg config.Config) kv.Store {
	if cfg.RedisAddr == "" {
		slog.Warn("redis_addr_empty_using_memstore")
		return kv.NewMemStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return kv.NewRedisStore(client)
}

// buildLLMClient returns a client whenever credentials are present: the
// agents need one regardless of whether LLM routing is enabled (routing
// enablement only gates the router's classifier path).
func buildLLMClient(cfg config.Config) llm.Client {
	if cfg.LLMAPIKey == "" {
		return nil
	}
	if cfg.LLMProvider != "" && cfg.LLMProvider != "anthropic" {
		slog.Warn("unsupported_llm_provider", "provider", cfg.LLMProvider, "using", "anthropic")
	}
	return llm.NewAnthropicClient(cfg.LLMAPIKey, llm.WithAnthropicModel(cfg.LLMModel))
}

func buildRegistry(llmClient llm.Client, log agent.EventLogger) *agent.Registry {
	catalog := tools.DemoCatalog()
	orderLookup := tools.NewMemOrderLookup(tools.DemoOrders()...)
	caseStore := tools.NewMemCaseStore()

	return agent.NewRegistry(
		lanes.NewInfoAgent(llmClient, tools.DemoBusinessHours(), tools.DemoLocations(), tools.DemoFaqs(), log),
		lanes.NewProductAgent(llmClient, catalog, log),
		lanes.NewCommerceAgent(llmClient, catalog, log),
		lanes.NewSupportAgent(llmClient, tools.DemoRefundPolicies(), caseStore, log),
		lanes.NewOrderStatusAgent(llmClient, orderLookup, log),
	)
}
