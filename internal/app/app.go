package app

import (
	"context"
	"errors"
	"fmt"

	"rfp_automation/internal/adapter/persistence/repository"
	"rfp_automation/internal/infrastructure/catalog"
	"rfp_automation/internal/infrastructure/config"
	"rfp_automation/internal/infrastructure/database"
	"rfp_automation/internal/infrastructure/llm"
	"rfp_automation/internal/infrastructure/packaging"
	"rfp_automation/internal/infrastructure/pricing"
	"rfp_automation/internal/infrastructure/sources"
	"rfp_automation/internal/platform/logger"
	"rfp_automation/internal/platform/observability"
	"rfp_automation/internal/usecase"
	"rfp_automation/internal/usecase/interfaces"
)

const ServiceName = "rfp-automation"

// App holds the wired components shared by the HTTP server and the CLI.
type App struct {
	Config   config.Config
	Log      *logger.Logger
	Index    *catalog.Index
	Ledger   *pricing.Ledger
	Jobs     interfaces.IJobRepository
	Matcher  *usecase.SpecMatchUseCase
	Pricing  *usecase.PricingUseCase
	Pipeline *usecase.PipelineUseCase

	shutdownOtel func(context.Context) error
}

// New loads the catalogue and the pricing ledger, picks the job store and
// starts the pipeline workers.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{Config: cfg, Log: log}
	a.shutdownOtel = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: ServiceName,
		SampleRatio: cfg.OtelSampleRatio,
	})

	var (
		embedder interfaces.IEmbeddingFunction
		drafter  interfaces.IResponseDrafter
	)
	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewClient(llm.ClientConfig{
			BaseURL:    cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			EmbedModel: cfg.OpenAIEmbedModel,
			Timeout:    cfg.OpenAITimeout,
		}, log.With("component", "llm"))
		if err != nil {
			return nil, err
		}
		drafter = llm.NewDrafter(client)
		if cfg.EmbeddingProvider == config.EmbeddingProviderOpenAI {
			embedder = llm.NewEmbedder(client)
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, draft responses will degrade")
	}
	if embedder == nil {
		embedder = llm.NewHashingEmbedder(cfg.EmbeddingDims)
	}

	index, err := loadCatalog(ctx, cfg, embedder, log)
	if err != nil {
		return nil, err
	}
	a.Index = index

	ledger, err := loadLedger(cfg, log)
	if err != nil {
		return nil, err
	}
	a.Ledger = ledger

	jobs, err := newJobRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Jobs = jobs

	if cfg.RfpFeedPath == "" {
		log.Warn("RFP_FEED_PATH not set, every job will end with NoCandidateRfp")
	}
	feed := sources.NewFeedSource(cfg.RfpFeedPath, cfg.RfpDueWithinDays)

	a.Matcher = usecase.NewSpecMatchUseCase(index, embedder, log.With("component", "spec_match"), cfg.CallTimeout)
	a.Pricing = usecase.NewPricingUseCase(ledger, log.With("component", "pricing"), cfg.AttributeMatchMinScore)
	a.Pipeline = usecase.NewPipelineUseCase(
		jobs,
		feed,
		a.Matcher,
		a.Pricing,
		drafter,
		packaging.NewPackager(cfg.PackageDir),
		log.With("component", "pipeline"),
		usecase.WithWorkers(cfg.PipelineWorkers),
		usecase.WithQueueSize(cfg.PipelineQueueSize),
		usecase.WithCallTimeout(cfg.CallTimeout),
		usecase.WithRetryPolicy(usecase.RetryPolicy{
			MaxRetries:      cfg.MatchMaxRetries,
			InitialInterval: cfg.MatchRetryInitial,
		}),
		usecase.WithDefaults(usecase.PipelineDefaults{
			TopK:            cfg.MatchTopK,
			MaxRequirements: cfg.MaxRequirementLines,
			DefaultQuantity: cfg.DefaultLineQuantity,
			TestNames:       cfg.DefaultTestNames,
		}),
	)
	return a, nil
}

// Close drains the pipeline and flushes traces.
func (a *App) Close(ctx context.Context) error {
	if a.Pipeline != nil {
		a.Pipeline.Shutdown(ctx)
	}
	if a.shutdownOtel != nil {
		return a.shutdownOtel(ctx)
	}
	return nil
}

// dimensionCheckText is embedded once at startup to learn the live model's
// vector length.
const dimensionCheckText = "catalog embedding dimension check"

func loadCatalog(ctx context.Context, cfg config.Config, embedder interfaces.IEmbeddingFunction, log *logger.Logger) (*catalog.Index, error) {
	opts := []catalog.Option{catalog.WithScorer(catalog.SpecWeighted(cfg.MatchSpecWeight))}
	if cfg.CatalogPath == "" {
		log.Warn("CATALOG_PATH not set, starting with an empty catalog")
		return catalog.NewIndex(nil, opts...)
	}
	entries, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if cfg.EmbeddingProvider == config.EmbeddingProviderHashing {
		// Stored vectors come from another model and are not comparable.
		for i := range entries {
			entries[i].Embedding = nil
		}
	} else if len(entries) > 0 {
		sample, err := embedder.Embed(ctx, dimensionCheckText)
		if err != nil {
			return nil, fmt.Errorf("check embedding model dimensions: %w", err)
		}
		if len(sample) == 0 {
			return nil, &config.ConfigError{Key: "OPENAI_EMBED_MODEL", Value: cfg.OpenAIEmbedModel, Err: errors.New("model returned an empty embedding")}
		}
		if dropped := catalog.DropMismatchedEmbeddings(entries, len(sample)); dropped > 0 {
			log.Warn("stored catalog embeddings do not match the embedding model, re-embedding",
				"entries", dropped, "model_dims", len(sample))
		}
	}
	n, err := catalog.EmbedMissing(ctx, embedder, entries)
	if err != nil {
		return nil, err
	}
	index, err := catalog.NewIndex(entries, opts...)
	if err != nil {
		return nil, fmt.Errorf("build catalog index: %w", err)
	}
	log.Info("catalog loaded", "path", cfg.CatalogPath, "entries", index.Len(), "embedded", n, "dims", index.Dims())
	return index, nil
}

func loadLedger(cfg config.Config, log *logger.Logger) (*pricing.Ledger, error) {
	if cfg.PricingWorkbookPath == "" {
		log.Warn("PRICING_WORKBOOK_PATH not set, every line item will be unresolved")
		return pricing.NewLedger(nil, nil), nil
	}
	products, tests, err := pricing.LoadWorkbook(cfg.PricingWorkbookPath)
	if err != nil {
		return nil, err
	}
	log.Info("pricing ledger loaded", "path", cfg.PricingWorkbookPath, "products", len(products), "tests", len(tests))
	return pricing.NewLedger(products, tests), nil
}

func newJobRepository(ctx context.Context, cfg config.Config) (interfaces.IJobRepository, error) {
	if cfg.JobStore != config.JobStoreDynamoDB {
		return repository.NewJobMemoryRepository(), nil
	}
	ddb, err := database.ConnectDynamoDB(ctx, database.DynamoSettings{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.DynamoDBEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("connect dynamodb: %w", err)
	}
	return repository.NewJobDynamoRepository(ddb, cfg.JobsTable), nil
}
