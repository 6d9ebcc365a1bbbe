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

package askbase

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/askbase/ai"
	"github.com/poiesic/askbase/ai/openai"
	"github.com/poiesic/askbase/api"
	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/generate"
	"github.com/poiesic/askbase/ingestion"
	"github.com/poiesic/askbase/registry"
	registrybadger "github.com/poiesic/askbase/registry/badger"
	"github.com/poiesic/askbase/search"
	"github.com/poiesic/askbase/vectordb/qdrant"
)

// Service wires the collection registry, vector index, AI provider, and the
// packages built on top of them into one unit with a single Close.
type Service struct {
	backend   *registrybadger.Backend
	registry  registry.CollectionRegistry
	provider  ai.Provider
	manager   *collection.Manager
	pipeline  *ingestion.Pipeline
	retriever *search.Retriever
	generator *generate.Generator
	logger    *slog.Logger
}

func NewService(cfg *Config) (*Service, error) {
	// Open registry backend
	backend, err := registrybadger.OpenBackend(cfg.RegistryPath, false)
	if err != nil {
		return nil, err
	}

	// Create collection registry
	reg, err := registrybadger.NewCollectionStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.AIHost),
		ai.WithAPIKey(cfg.AIAPIKey),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
		ai.WithChatModel(cfg.ChatModel),
		ai.WithFallbackModels(cfg.FallbackModels...),
	)
	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		reg.Close()
		backend.Close()
		return nil, err
	}

	// Create vector index
	index, err := qdrant.NewIndex(cfg.QdrantURL, cfg.QdrantAPIKey, provider.Embedder())
	if err != nil {
		provider.Close()
		reg.Close()
		backend.Close()
		return nil, err
	}

	// Create collection manager
	manager, err := collection.NewManager(index, reg,
		collection.WithBaseName(cfg.BaseCollection),
		collection.WithVectorSize(cfg.VectorSize),
	)
	if err != nil {
		provider.Close()
		reg.Close()
		backend.Close()
		return nil, err
	}

	// Create ingestion pipeline
	pipelineOpts := []ingestion.Option{
		ingestion.WithChunker(ingestion.NewChunker(
			ingestion.WithChunkSize(cfg.ChunkSize),
			ingestion.WithChunkOverlap(cfg.ChunkOverlap),
		)),
	}
	if cfg.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(cfg.PoolSize))
	}
	pipeline, err := ingestion.NewPipeline(manager, pipelineOpts...)
	if err != nil {
		provider.Close()
		reg.Close()
		backend.Close()
		return nil, err
	}

	// Create retriever
	retriever, err := search.NewRetriever(manager)
	if err != nil {
		pipeline.Close()
		provider.Close()
		reg.Close()
		backend.Close()
		return nil, err
	}

	// Create answer generator
	generator, err := generate.NewGenerator(retriever, provider.Completer(), aiConfig,
		generate.WithAttemptTimeout(cfg.AttemptTimeout),
	)
	if err != nil {
		pipeline.Close()
		provider.Close()
		reg.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:   backend,
		registry:  reg,
		provider:  provider,
		manager:   manager,
		pipeline:  pipeline,
		retriever: retriever,
		generator: generator,
		logger:    slog.Default(),
	}, nil
}

func (s *Service) Close() error {
	// Stop the ingestion pipeline first
	if err := s.pipeline.Close(); err != nil {
		s.logger.Error("error closing ingestion pipeline", "err", err)
	}

	// Close AI provider
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	// Close collection registry
	if err := s.registry.Close(); err != nil {
		s.logger.Error("error closing collection registry", "err", err)
		return err
	}

	// Close backend
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing registry backend", "err", err)
		return err
	}
	return nil
}

func (s *Service) Manager() *collection.Manager {
	return s.manager
}

func (s *Service) Pipeline() *ingestion.Pipeline {
	return s.pipeline
}

func (s *Service) Retriever() *search.Retriever {
	return s.retriever
}

func (s *Service) Generator() *generate.Generator {
	return s.generator
}

// Handler returns the HTTP API bound to this service.
func (s *Service) Handler() http.Handler {
	return api.SetupRouter(api.NewHandler(s.pipeline, s.generator, s.manager, s.logger))
}
