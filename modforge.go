// Package modforge is the top-level entry point for the ModForge server.
//
// Use the Builder to compose a custom ModForge application:
//
//	app, err := modforge.NewBuilder().Build()
//	app.Start(ctx)
//
// Or customize every component:
//
//	app, err := modforge.NewBuilder().
//	    WithStore(myStore).
//	    WithGateway(myGateway).
//	    WithRules(myRules).
//	    Build()
package modforge

import (
	"context"
	"fmt"
	"os"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/config"
	"github.com/modforge/modforge/internal/gateway"
	"github.com/modforge/modforge/internal/orchestrator"
	"github.com/modforge/modforge/internal/publish"
	"github.com/modforge/modforge/internal/server"
)

// Builder constructs a ModForge App.
type Builder struct {
	config    *config.Config
	store     bundle.Store
	gateway   orchestrator.ModelGateway
	rules     []orchestrator.Rule
	publisher *publish.Client
}

// NewBuilder creates a new Builder with sensible defaults.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfig sets the application configuration.
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the bundle store implementation.
func (b *Builder) WithStore(s bundle.Store) *Builder {
	b.store = s
	return b
}

// WithGateway sets the model gateway used for generation and updates.
func (b *Builder) WithGateway(g orchestrator.ModelGateway) *Builder {
	b.gateway = g
	return b
}

// WithRules sets the fallback rule table for the update path.
func (b *Builder) WithRules(rules []orchestrator.Rule) *Builder {
	b.rules = rules
	return b
}

// WithPublisher sets the GitHub export client.
func (b *Builder) WithPublisher(p *publish.Client) *Builder {
	b.publisher = p
	return b
}

// Build creates the App. Missing components are filled with defaults.
func (b *Builder) Build() (*App, error) {
	if err := applyDefaults(b); err != nil {
		return nil, err
	}

	orch := orchestrator.New(b.gateway, b.store, b.rules)
	srv := server.New(b.config.ServerAddr, orch, b.store, b.publisher)

	return &App{
		config: b.config,
		orch:   orch,
		server: srv,
	}, nil
}

// App is a running ModForge application.
type App struct {
	config *config.Config
	orch   *orchestrator.Orchestrator
	server *server.Server
}

// Orchestrator returns the underlying orchestrator for direct access.
func (a *App) Orchestrator() *orchestrator.Orchestrator { return a.orch }

// Start runs the HTTP server. Blocks until ctx is done.
func (a *App) Start(ctx context.Context) error {
	return a.server.Start(ctx)
}

// applyDefaults fills in missing fields on the builder with sensible defaults.
func applyDefaults(b *Builder) error {
	if b.config == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		b.config = cfg
	}

	if err := os.MkdirAll(b.config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if b.store == nil {
		switch b.config.StoreBackend {
		case "sqlite":
			st, err := bundle.NewSQLiteStore(b.config.DatabasePath)
			if err != nil {
				return fmt.Errorf("initializing store: %w", err)
			}
			b.store = st
		default:
			b.store = bundle.NewMemoryStore(b.config.StoreMaxEntries, b.config.StoreTTL)
		}
	}

	if b.gateway == nil {
		b.gateway = gateway.New(gateway.Config{
			BaseURL: b.config.LLMBaseURL,
			Token:   b.config.LLMToken,
			Model:   b.config.LLMModel,
			Route:   b.config.LLMRoute,
			Timeout: b.config.LLMTimeout,
		})
	}

	if b.rules == nil {
		b.rules = orchestrator.DefaultRules()
	}

	if b.publisher == nil && b.config.PublishEnabled() {
		b.publisher = publish.New(b.config.GitHubToken)
	}

	return nil
}
