// Package openai implements the ai service interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// Construct services through NewProvider, which validates the shared
// configuration once and hands out an Embedder and a QueryFormulator
// backed by the same hosts.
package openai
