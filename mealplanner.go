// Package mealplanner provides a high-level façade over the orchestrator and
// service abstractions (sessions, memory, capability ports & logging) for
// building meal-planning applications. Most applications interact with this
// package by:
//  1. Creating a Planner via New() (optionally overriding default local services)
//  2. Opening a session for a user
//  3. Running PlanMeals and reading back history and preferences
//
// All defaults are safe for local development and testing: an offline
// planner, the static catalog and an in-memory store. Production deployments
// supply real provider ports, a durable store and a structured logger,
// typically via FromConfig.
package mealplanner

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability/anthropic"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability/gemini"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability/openai"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability/spoonacular"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/config"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/logging"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/memory"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/orchestrator"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/session"
)

// Options configures the Planner instance.
type Options struct {
	// Capability ports (default to local implementations if not provided).
	Text      capability.TextCompletion
	Catalog   capability.CatalogSearch
	Optimize  capability.ListOptimize
	Nutrition capability.NutritionAnalyzer

	// Stores (default to in-memory implementations if not provided).
	Memory   core.MemoryStore
	Sessions core.SessionRegistry

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Policy knobs.
	RetryPolicy       capability.RetryPolicy
	CuisineCap        int
	SearchConcurrency int
}

// Planner is the high-level façade aggregating the orchestrator and services.
type Planner struct {
	*orchestrator.Orchestrator
}

// New creates a new Planner with optional overrides. Any unset port or store
// is initialized with a local implementation.
func New(optFns ...func(o *Options)) (*Planner, error) {
	opts := Options{
		Text:        capability.NewOfflinePlanner(),
		RetryPolicy: capability.DefaultRetryPolicy(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch, err := orchestrator.New(orchestrator.Ports{
		Text:      opts.Text,
		Catalog:   opts.Catalog,
		Optimize:  opts.Optimize,
		Nutrition: opts.Nutrition,
	}, func(o *orchestrator.Options) {
		o.Memory = opts.Memory
		o.Sessions = opts.Sessions
		o.Logger = opts.Logger
		o.RetryPolicy = opts.RetryPolicy
		if opts.CuisineCap > 0 {
			o.CuisineCap = opts.CuisineCap
		}
		if opts.SearchConcurrency > 0 {
			o.SearchConcurrency = opts.SearchConcurrency
		}
	})
	if err != nil {
		return nil, err
	}
	return &Planner{Orchestrator: orch}, nil
}

// FromConfig builds a Planner from loaded configuration: the storage backend,
// the text provider selected by configured keys, the recipe catalog (cached,
// Spoonacular when a key is present) and the retry policy.
func FromConfig(cfg *config.Config) (*Planner, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	text, err := buildTextPort(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Planner.RateLimitPerSec > 0 {
		text = capability.NewRateLimitedTextCompletion(text, cfg.Planner.RateLimitPerSec, 1)
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logger.Level), cfg.Logger.Format, false)

	sessions := session.New(store, func(o *session.Options) {
		o.TTL = cfg.Session.TTL
	})

	return New(func(o *Options) {
		o.Text = text
		o.Catalog = catalog
		o.Memory = store
		o.Sessions = sessions
		o.Logger = logger
		o.RetryPolicy = capability.RetryPolicy{
			MaxRetries:  cfg.Retry.MaxRetries,
			Backoff:     cfg.Retry.Backoff,
			CallTimeout: cfg.Retry.CallTimeout,
		}
		o.CuisineCap = cfg.Planner.CuisineCap
		o.SearchConcurrency = cfg.Planner.SearchConcurrency
	})
}

func buildStore(cfg *config.Config) (core.MemoryStore, error) {
	retention := func(o *memory.Options) { o.Retention = cfg.Storage.HistoryRetention }
	switch cfg.Storage.Backend {
	case "sqlite":
		return memory.OpenSQLite(cfg.Storage.Dir, retention)
	case "memory":
		return memory.NewInMemoryStore(retention), nil
	default:
		return memory.NewFileStore(cfg.Storage.Dir, retention)
	}
}

// buildTextPort selects the model provider: an explicit choice wins, then the
// first provider with a configured key, then the offline planner.
func buildTextPort(cfg *config.Config) (capability.TextCompletion, error) {
	p := cfg.Providers
	provider := p.TextProvider
	if provider == "" {
		switch {
		case p.GeminiAPIKey != "":
			provider = "gemini"
		case p.OpenAIAPIKey != "":
			provider = "openai"
		case p.AnthropicAPIKey != "":
			provider = "anthropic"
		default:
			provider = "mock"
		}
	}

	switch provider {
	case "gemini":
		if p.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini selected but no api key configured")
		}
		return gemini.New(p.GeminiAPIKey, func(o *gemini.Options) {
			if p.GeminiModel != "" {
				o.Model = p.GeminiModel
			}
		}), nil
	case "openai":
		if p.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai selected but no api key configured")
		}
		return openai.New(func(o *openai.Options) {
			o.APIKey = p.OpenAIAPIKey
			if p.OpenAIModel != "" {
				o.Model = p.OpenAIModel
			}
		}), nil
	case "anthropic":
		if p.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic selected but no api key configured")
		}
		return anthropic.New(func(o *anthropic.Options) {
			o.APIKey = p.AnthropicAPIKey
			if p.AnthropicModel != "" {
				o.Model = anthropicsdk.Model(p.AnthropicModel)
			}
		}), nil
	default:
		return capability.NewOfflinePlanner(), nil
	}
}

func buildCatalog(cfg *config.Config) (capability.CatalogSearch, error) {
	var catalog capability.CatalogSearch = capability.NewStaticCatalog()
	if cfg.Providers.SpoonacularAPIKey != "" {
		catalog = spoonacular.New(cfg.Providers.SpoonacularAPIKey)
	}
	return capability.NewCachedCatalogSearch(catalog, 256)
}
