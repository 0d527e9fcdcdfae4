package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/config"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/agent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/chat"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/intent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/financeapi"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/llmprovider"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/logger"
	conversationrepo "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/repository/conversation"
	healthscorerepo "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/repository/healthscore"
	memoryrepo "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/repository/memory"
	simulationrepo "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/repository/simulation"
	auditrepo "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/repository/toolaudit"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/handlers"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/worker"
)

// @title AI Wealth Companion API
// @version 1.0
// @description Conversational financial assistant: intent routing, validated tools, health scoring and investment simulation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	// Infrastructure clients.
	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMTimeout)
	financeBackend := financeapi.NewClient(cfg.FinanceAPIURL, cfg.ToolTimeout)

	// Repositories.
	conversationRepository := conversationrepo.NewRepository(db)
	messageRepository := conversationrepo.NewMessageRepository(db)
	memoryRepository := memoryrepo.NewRepository(db)
	healthScoreRepository := healthscorerepo.NewRepository(db)
	simulationRepository := simulationrepo.NewRepository(db)
	auditRepository := auditrepo.NewRepository(db)

	// Domain services.
	conversationService := conversation.NewService(conversationRepository, messageRepository, cfg.ConversationIdleTTL, log)
	memoryService := memory.NewService(memoryRepository, log)
	healthScoreService := healthscore.NewService(financeBackend, healthScoreRepository, log)
	simulationService := simulation.NewService(financeBackend, simulationRepository, log)

	// Tool registry with the six base tools.
	registry := tool.NewRegistry(auditRepository, cfg.ToolTimeout, log)
	if err := tool.RegisterAll(registry, financeBackend, simulationService); err != nil {
		log.Fatal().Err(err).Msg("register tools")
	}

	// Sub-agents, each with its own capability scope.
	translator := language.NewTranslator(llmClient, cfg.LLMModel, log)
	languageAgent := agent.NewLanguageAgent(translator, memoryService, log)
	voiceAgent := agent.NewVoiceAgent(log)

	budgetScope := registry.Scoped(tool.NameCreateBudget, tool.NameAddTransaction, tool.NameFinancialSummary)
	spendingScope := registry.Scoped(tool.NameFinancialSummary, tool.NameAnalyzeSpending, tool.NameDashboardMetrics)
	investmentScope := registry.Scoped(tool.NameSimulateInvestment, tool.NameFinancialSummary)
	log.Info().
		Strs("budget", budgetScope.Names()).
		Strs("spending", spendingScope.Names()).
		Strs("investment", investmentScope.Names()).
		Msg("agent tool scopes")

	budgetAgent := agent.NewBudgetAgent(budgetScope, log)
	spendingAgent := agent.NewSpendingAgent(spendingScope, log)
	investmentAgent := agent.NewInvestmentAgent(investmentScope, memoryService, log)

	agents := agent.NewRegistry()
	for _, binding := range []struct {
		agent   agent.Agent
		intents []intent.Intent
	}{
		{budgetAgent, []intent.Intent{intent.IntentCreate, intent.IntentUpdate}},
		{spendingAgent, []intent.Intent{intent.IntentQuery, intent.IntentAnalyze}},
		{investmentAgent, []intent.Intent{intent.IntentPredict}},
	} {
		if err := agents.Register(binding.agent, binding.intents...); err != nil {
			log.Fatal().Err(err).Msg("register agent")
		}
	}

	classifier := intent.NewLLMClassifier(llmClient, cfg.LLMModel, log)
	orchestrator := chat.NewOrchestrator(conversationService, classifier, agents, languageAgent, voiceAgent, log)

	handlerProvider := handlers.NewProvider(orchestrator, conversationService, healthScoreService, simulationService, languageAgent, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	sweeper := worker.NewSweeper(conversationService, memoryService, cfg.SweepInterval, log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return httpServer.Run(groupCtx) })
	group.Go(func() error { return sweeper.Run(groupCtx) })

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
