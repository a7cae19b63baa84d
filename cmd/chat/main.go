package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"knowitall/internal/agent"
	"knowitall/internal/config"
	"knowitall/internal/llm"
	"knowitall/internal/render"
	"knowitall/internal/storage"
	"knowitall/internal/vectorstore"
)

// Interactive terminal client. Reads questions from stdin and prints
// grounded answers until the user types "salir".
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Keep the terminal clean: only surface warnings and errors.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	entryRepo := storage.NewEntryRepo(db)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	queryAgent := agent.New(embedder, vectorStore, entryRepo, llmClient, cfg.QdrantCollection, cfg.TopK)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Escribe 'salir' para terminar.")
	for {
		fmt.Print("\nTu pregunta: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "salir") {
			break
		}

		answer := queryAgent.Answer(ctx, question)
		fmt.Println("\nRespuesta:")
		fmt.Println(render.PlainText(answer))
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}
