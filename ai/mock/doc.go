// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	text, err := mockProvider.Completer().Complete(ctx, "model", system, user)
//
//	// Custom behavior injection
//	completer := mock.NewMockCompleter()
//	completer.CompleteFunc = func(ctx context.Context, model, system, user string) (string, error) {
//	    if model == "primary" {
//	        return "", errors.New("API returned unexpected status code: 500")
//	    }
//	    return "fallback answer [1]", nil
//	}
//
//	// Check attempted models
//	models := completer.CalledModels()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Returns a fixed canned answer and records tried models
//   - MockProvider: Aggregates mock embedder and completer
package mock
