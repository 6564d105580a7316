package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakhihealth/sakhi-backend/internal/clients/openai"
	"github.com/sakhihealth/sakhi-backend/internal/clients/pinecone"
	"github.com/sakhihealth/sakhi-backend/internal/clients/rediscache"
	"github.com/sakhihealth/sakhi-backend/internal/data/profiles"
	"github.com/sakhihealth/sakhi-backend/internal/handlers"
	"github.com/sakhihealth/sakhi-backend/internal/modules/chat"
	"github.com/sakhihealth/sakhi-backend/internal/modules/mealplan"
	"github.com/sakhihealth/sakhi-backend/internal/platform/envutil"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
	"github.com/sakhihealth/sakhi-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	lg, err := logger.New(envutil.String("LOG_MODE", "dev"))
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer lg.Sync()

	ai, err := openai.NewClient(lg)
	if err != nil {
		lg.Fatal("openai client init failed", "error", err.Error())
	}

	pc, err := pinecone.New(lg, pinecone.Config{
		APIKey:     os.Getenv("PINECONE_API_KEY"),
		APIVersion: envutil.String("PINECONE_API_VERSION", ""),
		BaseURL:    envutil.String("PINECONE_BASE_URL", ""),
	})
	if err != nil {
		lg.Fatal("pinecone client init failed", "error", err.Error())
	}
	store, err := pinecone.NewVectorStore(lg, pc)
	if err != nil {
		lg.Fatal("pinecone vector store init failed", "error", err.Error())
	}

	cache, err := rediscache.New(lg)
	if err != nil {
		lg.Warn("embedding cache unavailable, continuing without it", "error", err.Error())
		cache = nil
	}

	retriever, err := mealplan.NewPineconeRetriever(lg, ai, store, cache, envutil.String("PINECONE_KNOWLEDGE_NAMESPACE", "knowledge"))
	if err != nil {
		lg.Fatal("retriever init failed", "error", err.Error())
	}

	llm, err := mealplan.NewOpenAILLM(ai)
	if err != nil {
		lg.Fatal("llm adapter init failed", "error", err.Error())
	}

	generator, err := mealplan.NewGenerator(lg, mealplan.ConfigFromEnv(), retriever, llm)
	if err != nil {
		lg.Fatal("meal plan generator init failed", "error", err.Error())
	}

	chatSvc, err := chat.NewService(lg, ai, retriever)
	if err != nil {
		lg.Fatal("chat service init failed", "error", err.Error())
	}

	// Profile storage is optional: requests that carry their own
	// preferences and health context work without a database.
	var repo *profiles.Repo
	if os.Getenv("DATABASE_URL") != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		repo, err = profiles.NewRepo(ctx, lg)
		cancel()
		if err != nil {
			lg.Warn("profile store unavailable, continuing without it", "error", err.Error())
			repo = nil
		}
	}

	router := server.NewRouter(server.RouterConfig{
		MealPlanHandler: handlers.NewMealPlanHandler(lg, generator, repo),
		ChatHandler:     handlers.NewChatHandler(lg, chatSvc),
	})

	port := envutil.String("PORT", "8080")
	lg.Info("starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		lg.Fatal("server exited", "error", err.Error())
	}
}
