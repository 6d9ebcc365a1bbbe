// Package mock provides an in-memory vector index for testing without a
// running Qdrant server.
package mock
