package generate

import (
	"fmt"
	"strings"

	"github.com/poiesic/askbase/core"
)

// systemPrompt constrains the model to the supplied context and the [n]
// citation convention.
const systemPrompt = "You are a helpful assistant. Use the provided context to answer questions accurately and concisely. If you cannot find the answer in the context, say so clearly. Always cite your sources using [1], [2], etc."

// User-facing copy for the terminal states that never reach a model.
const (
	noKnowledgeBaseMessage = "I don't have any relevant information to answer your question. Please make sure you have uploaded some documents first."
	noMatchMessage         = "I couldn't find any relevant information in your documents to answer that question."
	blankResponseMessage   = "I could not generate a response. Please try rephrasing your question."
)

// Degraded-response copy, chosen by the terminal failure classification.
const (
	serverErrorMessage = "The answer service is temporarily unavailable. Please try again in a moment."
	timeoutMessage     = "The request took too long to complete. Please try again."
	genericFailMessage = "Something went wrong while generating an answer. Please try again."
)

// buildUserPrompt assembles the grounded prompt: each retrieved chunk tagged
// with its rank, followed by the question. The tags match the source IDs
// attached to the answer, so the model's [n] citations line up.
func buildUserPrompt(results []core.RetrievedChunk, question string) string {
	sections := make([]string, len(results))
	for i, result := range results {
		sections[i] = fmt.Sprintf("SOURCE %d:\n%s", result.Rank, result.Chunk.Content)
	}
	context := strings.Join(sections, "\n\n---\n\n")
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context, question)
}

// buildSources numbers the retrieved chunks to match the citation indices
// used in the prompt.
func buildSources(results []core.RetrievedChunk) []core.Source {
	sources := make([]core.Source, len(results))
	for i, result := range results {
		sources[i] = core.Source{
			ID:         result.Rank,
			Source:     result.Chunk.Metadata.Source,
			SourceType: result.Chunk.Metadata.SourceType,
			Title:      result.Chunk.Metadata.Title,
		}
	}
	return sources
}
