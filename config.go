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
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the service configuration, populated from the environment.
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Vector index configuration
	QdrantURL    string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey string `env:"QDRANT_API_KEY"`

	// Collection registry storage
	RegistryPath string `env:"REGISTRY_PATH" envDefault:"data/registry"`

	// Collection naming and retention
	BaseCollection string        `env:"BASE_COLLECTION" envDefault:"knowledge_base"`
	VectorSize     int           `env:"VECTOR_SIZE" envDefault:"384"`
	SweepMaxAge    time.Duration `env:"SWEEP_MAX_AGE" envDefault:"24h"`

	// Ingestion configuration
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`
	PoolSize     int `env:"INGEST_POOL_SIZE"`

	// AI service configuration
	AIHost         string   `env:"AI_HOST" envDefault:"http://localhost:11434/v1"`
	AIAPIKey       string   `env:"AI_API_KEY"`
	EmbeddingModel string   `env:"EMBEDDING_MODEL" envDefault:"embeddinggemma"`
	ChatModel      string   `env:"CHAT_MODEL" envDefault:"qwen2.5:3b"`
	FallbackModels []string `env:"FALLBACK_MODELS" envSeparator:"," envDefault:"llama3.2:3b"`
	AttemptTimeout time.Duration `env:"ATTEMPT_TIMEOUT" envDefault:"30s"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment, optionally loading an
// env file first. A missing env file is fine; in containerized deployments
// the variables are set externally.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("Warning: could not load %s (this is ok if env vars are set externally): %v\n", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
