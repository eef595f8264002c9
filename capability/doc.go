// Package capability defines the abstract external service contracts the
// orchestrator depends on but does not implement: text completion, catalog
// search, shopping list optimization and nutrition analysis. Each port has a
// synchronous request/response contract; provider-backed implementations
// live in the subpackages (openai, anthropic, gemini, spoonacular) while
// this package supplies offline implementations, deterministic test fakes,
// and decorators for retry, rate limiting and caching.
package capability
