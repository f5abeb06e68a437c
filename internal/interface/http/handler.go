package http

import (
	"fmt"
	"log/slog"

	"github.com/yanqian/slidegen/internal/domain/auth"
	"github.com/yanqian/slidegen/internal/domain/generation"
	"github.com/yanqian/slidegen/internal/domain/history"
	"github.com/yanqian/slidegen/internal/domain/topics"
	"github.com/yanqian/slidegen/internal/infra/config"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	generationSvc     generation.Service
	authSvc           auth.Service
	historySvc        history.Service
	topicsSvc         topics.Service
	generationEnabled bool
	outputDir         string
	staticDir         string
	catalog           catalogBodies
	openAPI           []byte
	logger            *slog.Logger
}

// NewHandler constructs the root HTTP handler. Catalog and API document bodies are encoded once here.
func NewHandler(
	cfg *config.Config,
	generationSvc generation.Service,
	authSvc auth.Service,
	historySvc history.Service,
	topicsSvc topics.Service,
	logger *slog.Logger,
) (*Handler, error) {
	bodies, err := encodeCatalogs()
	if err != nil {
		return nil, fmt.Errorf("encode catalogs: %w", err)
	}
	doc, err := openAPIJSON()
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return &Handler{
		generationSvc:     generationSvc,
		authSvc:           authSvc,
		historySvc:        historySvc,
		topicsSvc:         topicsSvc,
		generationEnabled: cfg.GenerationEnabled(),
		outputDir:         cfg.Paths.OutputDir,
		staticDir:         cfg.Paths.StaticDir,
		catalog:           bodies,
		openAPI:           doc,
		logger:            logger.With("component", "http.handler"),
	}, nil
}
