package main

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"veridoc/internal/config"
	"veridoc/internal/handler"
	"veridoc/internal/metrics"
	"veridoc/internal/pdf"
	"veridoc/internal/port"
	"veridoc/internal/provider"
	"veridoc/internal/provider/claude"
	"veridoc/internal/provider/gemini"
	"veridoc/internal/provider/openai"
	"veridoc/internal/router"
	"veridoc/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	// Register provider backends
	provider.Register("openai", func(c *config.ProviderConfig, m port.MetricsCollector) (port.Provider, error) {
		return openai.New(c, m), nil
	})
	provider.Register("claude", func(c *config.ProviderConfig, m port.MetricsCollector) (port.Provider, error) {
		return claude.New(c, m), nil
	})
	provider.Register("gemini", func(c *config.ProviderConfig, m port.MetricsCollector) (port.Provider, error) {
		return gemini.New(c, m), nil
	})

	visionChain, err := provider.BuildChain(&cfg.Vision, collector)
	if err != nil {
		return fmt.Errorf("failed to build vision provider chain: %w", err)
	}
	analysisChain, err := provider.BuildChain(&cfg.Analysis, collector)
	if err != nil {
		return fmt.Errorf("failed to build analysis provider chain: %w", err)
	}

	// PDF capabilities
	processor := pdf.NewProcessor(cfg.Pipeline.RenderDPI)

	// Initialize services
	extractionSvc := service.NewExtractionService(visionChain, processor, processor, cfg.Pipeline.PageWorkers)
	validationSvc := service.NewValidationService(analysisChain)
	pipelineSvc := service.NewPipelineService(extractionSvc, validationSvc)

	// Initialize handlers
	verifyH := handler.NewVerifyHandler(pipelineSvc, extractionSvc, cfg.Pipeline.MaxFileSizeMB)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(verifyH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s (vision primary=%s, analysis primary=%s)",
		cfg.Server.Port, visionChain.Primary(), analysisChain.Primary())
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
