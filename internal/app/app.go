package app

import (
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/templui/campus-collector/internal/analyzer"
	"github.com/templui/campus-collector/internal/catalog"
	"github.com/templui/campus-collector/internal/config"
	"github.com/templui/campus-collector/internal/middleware"
	"github.com/templui/campus-collector/internal/repository"
	"github.com/templui/campus-collector/internal/service"
	"github.com/templui/campus-collector/internal/storage"
)

type App struct {
	Cfg           *config.Config
	Catalog       *catalog.Store
	Storage       storage.Storage
	PhotoRepo     repository.PhotoRepository
	IngestService *service.IngestService
	Analyzer      *analyzer.Analyzer

	TrustedProxies []netip.Prefix
}

func New(cfg *config.Config) (*App, error) {
	// Catalog opens on first use and stays open until Close
	store := catalog.NewStore(cfg.DBDriver, cfg.DBConnection)

	// Repositories
	photoRepository := repository.NewPhotoRepository(store)

	// Storage
	photoStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Analyzer
	prompts, err := analyzer.LoadPrompts()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}
	glm := analyzer.NewGLM(analyzer.GLMConfig{
		APIKey:   cfg.GLMAPIKey,
		URL:      cfg.GLMAPIURL,
		Model:    cfg.GLMModel,
		AuthMode: cfg.GLMAuthMode,
	})
	if !glm.Configured() {
		slog.Warn("GLM_API_KEY not set, photo analysis will fail until it is configured")
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	// Services
	ingestService := service.NewIngestService(photoRepository, photoStorage)

	return &App{
		Cfg:           cfg,
		Catalog:       store,
		Storage:       photoStorage,
		PhotoRepo:     photoRepository,
		IngestService: ingestService,
		Analyzer:      analyzer.New(glm, prompts),

		TrustedProxies: trusted,
	}, nil
}

func (a *App) Close() error {
	if a.Catalog != nil {
		return a.Catalog.Close()
	}
	return nil
}
