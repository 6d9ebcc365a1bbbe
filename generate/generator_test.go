package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/askbase/ai"
	aimock "github.com/poiesic/askbase/ai/mock"
	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/core"
	registrybadger "github.com/poiesic/askbase/registry/badger"
	"github.com/poiesic/askbase/search"
	vdbmock "github.com/poiesic/askbase/vectordb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, *collection.Manager, *aimock.MockCompleter) {
	t.Helper()

	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	t.Cleanup(func() {
		reg.Close()
		backend.Close()
	})

	manager, err := collection.NewManager(index, reg)
	require.NoError(t, err)

	retriever, err := search.NewRetriever(manager)
	require.NoError(t, err)

	completer := aimock.NewMockCompleter()
	config := ai.NewConfig(
		ai.WithChatModel("primary-model"),
		ai.WithFallbackModels("fallback-model"),
	)

	generator, err := NewGenerator(retriever, completer, config, opts...)
	require.NoError(t, err)
	return generator, manager, completer
}

func ingestFact(t *testing.T, manager *collection.Manager, session, fact string) {
	t.Helper()
	require.NoError(t, manager.WriteChunks(context.Background(), session, []core.Chunk{{
		Content: fact,
		Metadata: core.ChunkMetadata{
			Source:      "facts.txt",
			SourceType:  core.SourceTypeFile,
			ChunkIndex:  0,
			TotalChunks: 1,
		},
	}}))
}

func TestNewGenerator(t *testing.T) {
	completer := aimock.NewMockCompleter()
	config := ai.DefaultConfig()

	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	defer func() { reg.Close(); backend.Close() }()
	manager, err := collection.NewManager(index, reg)
	require.NoError(t, err)
	retriever, err := search.NewRetriever(manager)
	require.NoError(t, err)

	t.Run("nil retriever", func(t *testing.T) {
		_, err := NewGenerator(nil, completer, config)
		assert.Equal(t, ErrRetrieverRequired, err)
	})

	t.Run("nil completer", func(t *testing.T) {
		_, err := NewGenerator(retriever, nil, config)
		assert.Equal(t, ErrCompleterRequired, err)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewGenerator(retriever, completer, nil)
		assert.Equal(t, ErrConfigRequired, err)
	})
}

func TestAnswerTerminalStatesWithoutModelCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("no knowledge base", func(t *testing.T) {
		generator, _, completer := newTestGenerator(t)

		answer, err := generator.Answer(ctx, "never-ingested", "What is the capital of France?", 0)
		require.NoError(t, err)
		assert.Equal(t, core.StateNoKnowledgeBase, answer.Diagnostics.State)
		assert.Equal(t, noKnowledgeBaseMessage, answer.Text)
		assert.Empty(t, answer.Sources)
		assert.Zero(t, completer.CallCount())
	})

	t.Run("no matching chunks", func(t *testing.T) {
		index := vdbmock.NewMockIndex()
		index.SearchFunc = func(ctx context.Context, name, query string, k int) ([]core.RetrievedChunk, error) {
			return nil, nil
		}
		reg, backend, err := registrybadger.NewMemoryRegistry()
		require.NoError(t, err)
		defer func() { reg.Close(); backend.Close() }()

		manager, err := collection.NewManager(index, reg)
		require.NoError(t, err)
		retriever, err := search.NewRetriever(manager)
		require.NoError(t, err)

		completer := aimock.NewMockCompleter()
		generator, err := NewGenerator(retriever, completer, ai.DefaultConfig())
		require.NoError(t, err)

		ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

		answer, err := generator.Answer(ctx, "sess-1", "something unrelated", 0)
		require.NoError(t, err)
		assert.Equal(t, core.StateNoMatch, answer.Diagnostics.State)
		assert.Equal(t, noMatchMessage, answer.Text)
		assert.Empty(t, answer.Sources)
		assert.Zero(t, completer.CallCount())
	})

	t.Run("empty question", func(t *testing.T) {
		generator, _, _ := newTestGenerator(t)
		_, err := generator.Answer(ctx, "sess-1", "   ", 0)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})
}

func TestAnswerSuccess(t *testing.T) {
	ctx := context.Background()
	generator, manager, completer := newTestGenerator(t)
	ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

	completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
		assert.Contains(t, userPrompt, "SOURCE 1:")
		assert.Contains(t, userPrompt, "Paris is the capital of France.")
		assert.Contains(t, userPrompt, "What is the capital of France?")
		assert.Contains(t, systemPrompt, "cite your sources")
		return "The capital of France is Paris [1].", nil
	}

	answer, err := generator.Answer(ctx, "sess-1", "What is the capital of France?", 1)
	require.NoError(t, err)
	assert.Equal(t, core.StateAnswered, answer.Diagnostics.State)
	assert.Contains(t, answer.Text, "Paris")
	assert.Contains(t, answer.Text, "[1]")
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, 1, answer.Sources[0].ID)
	assert.Equal(t, "facts.txt", answer.Sources[0].Source)
	assert.Equal(t, "primary-model", answer.Diagnostics.Model)
	assert.Equal(t, []string{"primary-model"}, completer.CalledModels())
}

func TestAnswerFallbackChain(t *testing.T) {
	ctx := context.Background()

	t.Run("primary timeout, fallback succeeds", func(t *testing.T) {
		generator, manager, completer := newTestGenerator(t, WithAttemptTimeout(50*time.Millisecond))
		ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

		completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
			if model == "primary-model" {
				<-ctx.Done()
				return "", ctx.Err()
			}
			return "Paris [1].", nil
		}

		answer, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
		require.NoError(t, err)
		assert.Equal(t, core.StateAnswered, answer.Diagnostics.State)
		assert.Equal(t, "fallback-model", answer.Diagnostics.Model)
		assert.Equal(t, "Paris [1].", answer.Text)

		require.Len(t, answer.Diagnostics.Attempts, 2)
		assert.Equal(t, "primary-model", answer.Diagnostics.Attempts[0].Model)
		assert.Equal(t, core.OutcomeTimeout, answer.Diagnostics.Attempts[0].Outcome)
		assert.Equal(t, "fallback-model", answer.Diagnostics.Attempts[1].Model)
		assert.Equal(t, core.OutcomeSuccess, answer.Diagnostics.Attempts[1].Outcome)
	})

	t.Run("all models time out", func(t *testing.T) {
		generator, manager, completer := newTestGenerator(t, WithAttemptTimeout(20*time.Millisecond))
		ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

		completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}

		answer, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
		require.NoError(t, err)
		assert.Equal(t, core.StateDegraded, answer.Diagnostics.State)
		assert.Equal(t, timeoutMessage, answer.Text)
		// Retrieval succeeded, so sources are still attached
		assert.NotEmpty(t, answer.Sources)
		assert.Equal(t, []string{"primary-model", "fallback-model"}, completer.CalledModels())
		require.Len(t, answer.Diagnostics.Attempts, 2)
		for _, attempt := range answer.Diagnostics.Attempts {
			assert.Equal(t, core.OutcomeTimeout, attempt.Outcome)
		}
	})

	t.Run("all models fail with server errors", func(t *testing.T) {
		generator, manager, completer := newTestGenerator(t)
		ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

		completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
			return "", fmt.Errorf("API returned unexpected status code: 503 Service Unavailable")
		}

		answer, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
		require.NoError(t, err)
		assert.Equal(t, core.StateDegraded, answer.Diagnostics.State)
		assert.Equal(t, serverErrorMessage, answer.Text)
		assert.Contains(t, answer.Diagnostics.LastError, "503")
	})

	t.Run("other errors get generic copy", func(t *testing.T) {
		generator, manager, completer := newTestGenerator(t)
		ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

		completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
			return "", errors.New("connection reset by peer")
		}

		answer, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
		require.NoError(t, err)
		assert.Equal(t, core.StateDegraded, answer.Diagnostics.State)
		assert.Equal(t, genericFailMessage, answer.Text)
	})
}

func TestAnswerBlankCompletion(t *testing.T) {
	ctx := context.Background()
	generator, manager, completer := newTestGenerator(t)
	ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

	completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
		return "   ", nil
	}

	answer, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
	require.NoError(t, err)
	// A blank success is still a success, with substitute copy
	assert.Equal(t, core.StateAnswered, answer.Diagnostics.State)
	assert.Equal(t, blankResponseMessage, answer.Text)
	assert.Equal(t, 1, completer.CallCount())
}

func TestAnswerCallerCancellation(t *testing.T) {
	generator, manager, completer := newTestGenerator(t)
	ingestFact(t, manager, "sess-1", "Paris is the capital of France.")

	ctx, cancel := context.WithCancel(context.Background())
	completer.CompleteFunc = func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := generator.Answer(ctx, "sess-1", "capital of France?", 1)
	require.Error(t, err)
	// The chain stops after the cancelled attempt; the fallback is never tried
	assert.Equal(t, []string{"primary-model"}, completer.CalledModels())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want core.AttemptOutcome
	}{
		{"deadline exceeded", context.DeadlineExceeded, core.OutcomeTimeout},
		{"wrapped deadline", fmt.Errorf("complete: %w", context.DeadlineExceeded), core.OutcomeTimeout},
		{"status 500", errors.New("status code: 500"), core.OutcomeServerError},
		{"service unavailable", errors.New("upstream Service Unavailable"), core.OutcomeServerError},
		{"bad gateway", errors.New("502 Bad Gateway"), core.OutcomeServerError},
		{"connection refused", errors.New("connection refused"), core.OutcomeOther},
		{"cancelled", context.Canceled, core.OutcomeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}
