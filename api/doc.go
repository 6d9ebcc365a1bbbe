// Package api exposes the HTTP surface: document ingestion, question
// answering, session cleanup, and a small collections debug endpoint.
package api
