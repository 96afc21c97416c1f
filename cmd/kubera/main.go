package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/arjun/kubera/internal/agent"
	"github.com/arjun/kubera/internal/gateway"
	"github.com/arjun/kubera/internal/governance"
	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/store"
	"github.com/arjun/kubera/internal/tools"
	"github.com/arjun/kubera/internal/workflow"
	"github.com/arjun/kubera/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Tools
	registry := tools.NewRegistry()

	registry.Register(tools.NewMarketTool())
	registry.Register(tools.NewTechnicalTool())
	registry.Register(tools.NewNewsTool())
	registry.Register(tools.NewRiskTool())
	registry.Register(tools.NewScraperTool())
	registry.Register(tools.NewBrowserTool())
	registry.Register(tools.NewReportsTool(cfg.App.Workspace))

	searchTool, err := tools.NewSearchTool()
	if err != nil {
		log.Printf("Warning: Failed to initialize search tool: %v", err)
	} else {
		registry.Register(searchTool)
	}

	st, err := store.New(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	registry.Register(tools.NewWatchlistTool(st))

	prompts := agent.NewPromptManager(cfg.App.Prompts)

	gov := governance.NewDefaultPolicyEngine()
	// Default safety rules: keep the scraper and browser off local
	// and file targets.
	gov.DenyURLScheme("file")
	gov.DenyLocalTargets()

	logger := observability.NewLogger()

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	switch pName {
	case "openai", "openrouter", "deepseek":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		baseURL := pCfg.BaseURL
		if baseURL == "" && pName == "deepseek" {
			baseURL = "https://api.deepseek.com/v1"
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	planner := agent.NewTaskPlanner(llm, prompts, st, logger)
	executors := agent.NewExecutorManager(llm, registry, prompts, gov, logger, cfg.Workflow.MaxExecutorSteps)

	wf, err := workflow.New(planner, executors, st, logger, cfg.Workflow.MaxIterations)
	if err != nil {
		log.Fatal(err)
	}

	// One-shot mode: run the query from the command line and exit.
	if flag.NArg() > 0 {
		query := strings.Join(flag.Args(), " ")
		report, err := wf.Analyze(context.Background(), "console", query)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report)
		return
	}

	runService(cfg, wf, st)
}

func runService(cfg *config.Config, wf *workflow.Workflow, st *store.Store) {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var primary gateway.Messenger
	var gateways []gateway.Messenger

	if tgCfg, ok := cfg.GetGateway("telegram"); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, wf, st)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, tg)
		primary = tg
	}

	if dcCfg, ok := cfg.GetGateway("discord"); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token, wf, st)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, dc)
		if primary == nil {
			primary = dc
		}
	}

	if len(gateways) == 0 {
		log.Fatal("No gateway is enabled; pass a query on the command line for one-shot mode")
	}

	// Start Background Scheduler with a cancelable context
	scheduler := agent.NewScheduler(wf, st, primary)
	go scheduler.Start(ctx)

	// Live Resource Dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
			}
		}
	}()

	for _, gw := range gateways {
		gw := gw
		go func() {
			if err := gw.Start(); err != nil {
				log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
				stop() // stop everything if a gateway dies
			}
		}()
	}

	// Wait for shutdown signal
	<-ctx.Done()

	for _, gw := range gateways {
		_ = gw.Stop()
	}

	// Reset terminal aesthetics
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
