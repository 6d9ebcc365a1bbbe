// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package generate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/askbase/ai"
	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/search"
)

// DefaultAttemptTimeout bounds each model attempt.
const DefaultAttemptTimeout = 30 * time.Second

// Generator answers questions from a session's knowledge base, tolerating
// upstream model failures through an ordered fallback chain.
type Generator struct {
	retriever      *search.Retriever
	completer      ai.Completer
	config         *ai.Config
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithAttemptTimeout bounds each individual model attempt.
// Default is DefaultAttemptTimeout.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(g *Generator) error {
		if timeout > 0 {
			g.attemptTimeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator creates a new answer generator.
func NewGenerator(retriever *search.Retriever, completer ai.Completer, config *ai.Config, opts ...Option) (*Generator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if config == nil {
		return nil, ErrConfigRequired
	}

	g := &Generator{
		retriever:      retriever,
		completer:      completer,
		config:         config,
		attemptTimeout: DefaultAttemptTimeout,
		logger:         slog.Default().With("component", "generator"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Answer retrieves context for the question and generates a grounded answer.
//
// The request moves through a small state machine: retrieval first, which
// can terminate immediately (no knowledge base, no matching chunks) without
// any model call; otherwise generation walks the candidate-model chain until
// one succeeds or all are exhausted. Every outcome returns an Answer whose
// diagnostics describe what happened; errors are reserved for invalid input
// and caller cancellation.
func (g *Generator) Answer(ctx context.Context, session, question string, k int) (*core.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if k <= 0 {
		k = search.DefaultLimit
	}

	results, err := g.retriever.Retrieve(ctx, session, question, k)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrNoKnowledgeBase):
			return &core.Answer{
				Text:        noKnowledgeBaseMessage,
				Sources:     []core.Source{},
				Diagnostics: core.Diagnostics{State: core.StateNoKnowledgeBase},
			}, nil
		case errors.Is(err, core.ErrEmptySessionID), errors.Is(err, search.ErrInvalidLimit):
			return nil, err
		case ctx.Err() != nil:
			return nil, err
		default:
			// Backing store trouble degrades the answer instead of leaking
			// internals to the caller.
			g.logger.Error("retrieval failed", "err", err)
			return &core.Answer{
				Text:    serverErrorMessage,
				Sources: []core.Source{},
				Diagnostics: core.Diagnostics{
					State:     core.StateDegraded,
					LastError: "retrieval failed",
				},
			}, nil
		}
	}

	if len(results) == 0 {
		return &core.Answer{
			Text:        noMatchMessage,
			Sources:     []core.Source{},
			Diagnostics: core.Diagnostics{State: core.StateNoMatch},
		}, nil
	}

	sources := buildSources(results)
	userPrompt := buildUserPrompt(results, question)
	return g.generate(ctx, userPrompt, sources)
}

// generate walks the candidate-model chain, one attempt at a time, each
// bounded by its own deadline. A timed-out attempt is abandoned; its late
// result, if any, is discarded by the cancelled context.
func (g *Generator) generate(ctx context.Context, userPrompt string, sources []core.Source) (*core.Answer, error) {
	models := g.config.CandidateModels()
	attempts := make([]core.GenerationAttempt, 0, len(models))
	var lastOutcome core.AttemptOutcome
	var lastErr string

	for _, model := range models {
		// Caller gone: stop the chain, nothing useful left to produce.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempt := core.GenerationAttempt{
			Model:     model,
			StartedAt: time.Now().UTC(),
		}

		text, err := g.completeOnce(ctx, model, userPrompt)
		if err == nil {
			attempt.Outcome = core.OutcomeSuccess
			attempts = append(attempts, attempt)

			if strings.TrimSpace(text) == "" {
				text = blankResponseMessage
			}
			return &core.Answer{
				Text:    text,
				Sources: sources,
				Diagnostics: core.Diagnostics{
					State:    core.StateAnswered,
					Model:    model,
					Attempts: attempts,
				},
			}, nil
		}

		outcome := classifyError(err)
		attempt.Outcome = outcome
		attempt.Err = err.Error()
		attempts = append(attempts, attempt)
		lastOutcome = outcome
		lastErr = err.Error()

		g.logger.Warn("model attempt failed", "model", model, "outcome", outcome.String(), "err", err)
	}

	return &core.Answer{
		Text:    degradedMessage(lastOutcome),
		Sources: sources,
		Diagnostics: core.Diagnostics{
			State:     core.StateDegraded,
			Attempts:  attempts,
			LastError: lastErr,
		},
	}, nil
}

// completeOnce issues one completion call bounded by the attempt timeout.
func (g *Generator) completeOnce(ctx context.Context, model, userPrompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()
	return g.completer.Complete(attemptCtx, model, systemPrompt, userPrompt)
}
