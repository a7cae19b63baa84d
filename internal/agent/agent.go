// Package agent answers natural-language questions by retrieving relevant
// entries from the vector store and grounding a chat model on them.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"knowitall/internal/contextutil"
	"knowitall/internal/llm"
	"knowitall/internal/storage"
	"knowitall/internal/vectorstore"
)

// Fixed user-facing messages. Every failure path returns one of these in
// the deployment language instead of propagating an error.
const (
	msgEmbeddingFailed = "Error al obtener los embeddings para la consulta."
	msgQueryFailed     = "Error al consultar la colección."
	msgNoDocuments     = "No se encontraron documentos relevantes."
)

// systemPrompt constrains the model to answer only from supplied context,
// in Spanish, refusing to speculate, with topic/source attribution when
// available.
const systemPrompt = `Eres un asistente académico confiable de una universidad colombiana. Respondes únicamente en español, utilizando exclusivamente la información proporcionada en los documentos recuperados.

Reglas estrictas que debes seguir:
1. No inventes, completes ni supongas información que no esté en los textos entregados por el sistema de recuperación.
2. Si no encuentras información relacionada directamente con la pregunta, responde:
"Lo siento, no tengo información suficiente para responder esa pregunta."
3. No hables en inglés bajo ninguna circunstancia.
4. Cuando sea posible, incluye al final de la respuesta entre paréntesis el tema y la fuente correspondiente, si esta aparece en el texto recuperado.
5. Redacta tus respuestas con claridad y coherencia, en forma de explicaciones informativas, no como preguntas y respuestas.

Tu objetivo es ofrecer información confiable, clara y bien escrita, sin desviarte de las fuentes proporcionadas.`

// thinkBlock matches a reasoning trace delimited by <think> markers,
// non-greedy, spanning multiple lines.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Embedder turns a query into a vector.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Chatter returns generated text for a structured conversation.
type Chatter interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Agent embeds a query, retrieves the top-k matches, composes a grounded
// prompt, and returns a cleaned answer.
type Agent struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	entries    storage.EntryStore
	chat       Chatter
	collection string
	topK       int
}

// New creates a query agent. topK values below 1 fall back to 3.
func New(
	embedder Embedder,
	store vectorstore.VectorStore,
	entries storage.EntryStore,
	chat Chatter,
	collection string,
	topK int,
) *Agent {
	if topK < 1 {
		topK = 3
	}
	return &Agent{
		embedder:   embedder,
		store:      store,
		entries:    entries,
		chat:       chat,
		collection: collection,
		topK:       topK,
	}
}

// Answer answers a query. It never returns an error: every failure path
// yields a user-facing sentence instead.
func (a *Agent) Answer(ctx context.Context, query string) string {
	logger := contextutil.LoggerFromContext(ctx)

	vecs, err := a.embedder.EmbedTexts(ctx, []string{query})
	if err != nil || len(vecs) == 0 {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return msgEmbeddingFailed
	}

	results, err := a.store.Search(ctx, a.collection, vecs[0], a.topK)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return msgQueryFailed
	}
	if len(results) == 0 {
		return msgNoDocuments
	}

	contextText := a.contextFromResults(ctx, results)
	if strings.TrimSpace(contextText) == "" {
		return msgNoDocuments
	}

	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf("%s\n\nContexto: %s", systemPrompt, contextText)},
		{Role: "user", Content: query},
	}

	answer, err := a.chat.ChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0.7})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get chat response", "error", err)
		return fmt.Sprintf("Error al obtener la respuesta del modelo: %v", err)
	}

	return CleanAnswer(answer)
}

// contextFromResults joins retrieved document texts in store order. Full
// texts come from the entry repository; a result whose row is missing
// falls back to the preview carried in the point payload.
func (a *Agent) contextFromResults(ctx context.Context, results []vectorstore.SearchResult) string {
	logger := contextutil.LoggerFromContext(ctx)

	texts := make([]string, 0, len(results))
	for _, result := range results {
		entry, err := a.entries.GetByID(ctx, result.PointID)
		if err == nil {
			texts = append(texts, entry.Text)
			continue
		}
		logger.WarnContext(ctx, "entry text not found, using payload preview", "point_id", result.PointID, "error", err)
		if previewText, ok := result.Meta["text"].(string); ok && previewText != "" {
			texts = append(texts, previewText)
		}
	}
	return strings.Join(texts, " ")
}

// CleanAnswer strips any reasoning trace block from raw model output and
// trims surrounding whitespace.
func CleanAnswer(raw string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(raw, ""))
}
