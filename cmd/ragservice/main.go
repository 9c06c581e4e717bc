package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/visualdoc/ragservice/adapters/aws/bedrock"
	"github.com/visualdoc/ragservice/adapters/aws/s3fetch"
	"github.com/visualdoc/ragservice/adapters/localembed"
	"github.com/visualdoc/ragservice/adapters/memhistory"
	"github.com/visualdoc/ragservice/adapters/memstore"
	openaiadapter "github.com/visualdoc/ragservice/adapters/openai"
	"github.com/visualdoc/ragservice/adapters/pghistory"
	"github.com/visualdoc/ragservice/adapters/pgvector"
	"github.com/visualdoc/ragservice/adapters/sqlitestore"
	"github.com/visualdoc/ragservice/config"
	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/embedding"
	"github.com/visualdoc/ragservice/generator"
	"github.com/visualdoc/ragservice/history"
	"github.com/visualdoc/ragservice/httpapi"
	"github.com/visualdoc/ragservice/loader"
	"github.com/visualdoc/ragservice/ocr"
	"github.com/visualdoc/ragservice/rag"
	"github.com/visualdoc/ragservice/vectorstore"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the config file")
		serve      = flag.Bool("serve", false, "start the HTTP API")
		ingest     = flag.String("ingest", "", "ingest a local file, or an S3 key when -s3-bucket is set")
		s3Bucket   = flag.String("s3-bucket", "", "fetch the -ingest argument from this S3 bucket")
		query      = flag.String("query", "", "ask a question against the index")
		topK       = flag.Int("topk", 0, "number of contexts to retrieve, 0 uses the configured default")
		recreate   = flag.Bool("recreate", false, "drop and recreate the index before running")
	)
	flag.Parse()

	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pipeline, cleanup, err := buildPipeline(ctx, cfg, *recreate)
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	switch {
	case *serve:
		repo, closeRepo, err := buildHistory(ctx, cfg)
		if err != nil {
			slog.Error("failed to build history", "error", err)
			os.Exit(1)
		}
		defer closeRepo()

		server := httpapi.NewServer(pipeline, httpapi.WithHistory(repo))
		if err := server.Run(cfg.Server.Addr); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case *ingest != "":
		if err := runIngest(ctx, pipeline, *ingest, *s3Bucket); err != nil {
			slog.Error("ingestion failed", "error", err)
			os.Exit(1)
		}
	case *query != "":
		if err := runQuery(ctx, pipeline, *query, *topK); err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runIngest(ctx context.Context, pipeline *rag.Pipeline, target, bucket string) error {
	path := target
	if bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("loading aws config: %w", err)
		}
		fetcher := s3fetch.New(s3.NewFromConfig(awsCfg), bucket)
		local, cleanup, err := fetcher.Fetch(ctx, target)
		if err != nil {
			return err
		}
		defer cleanup()
		path = local
	}

	result, err := pipeline.IngestFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d chunks, %d ms)\n", result.Message, result.Chunks, result.LatencyMS)
	if !result.OK {
		os.Exit(1)
	}
	return nil
}

func runQuery(ctx context.Context, pipeline *rag.Pipeline, question string, topK int) error {
	result, err := pipeline.Query(ctx, question, topK)
	if err != nil {
		return err
	}
	fmt.Println(result.Answer)
	fmt.Printf("\n%d contexts, %d ms\n", len(result.Contexts), result.LatencyMS)
	for i, c := range result.Contexts {
		snippet := c.Text
		if len(snippet) > 120 {
			snippet = snippet[:120] + "..."
		}
		fmt.Printf("  [%d] score=%.3f %s\n", i+1, c.Score, snippet)
	}
	return nil
}

// buildPipeline assembles the configured embedder, store, generator
// and loaders. The returned cleanup closes the store.
func buildPipeline(ctx context.Context, cfg *config.Config, recreate bool) (*rag.Pipeline, func(), error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}

	if err := store.Init(ctx, recreate); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initializing store: %w", err)
	}

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	ocrClient := ocr.NewClient(&ocr.Config{
		TesseractPath: cfg.OCR.TesseractPath,
		DataPath:      cfg.OCR.DataPath,
		Languages:     cfg.OCR.Languages,
	})

	vs := vectorstore.New(store, embedder, vectorstore.WithName(cfg.Store.Collection))

	ragOpts := []rag.Option{
		rag.WithChunkSize(cfg.Chunking.ChunkSize),
		rag.WithChunkOverlap(cfg.Chunking.ChunkOverlap),
		rag.WithTopK(cfg.TopK),
	}
	if cfg.Chunking.Type == "token" {
		tokenSplitter, err := document.NewTokenWindowSplitter(
			cfg.Chunking.ChunkSize,
			cfg.Chunking.ChunkOverlap,
			cfg.Chunking.TokenModel,
		)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		ragOpts = append(ragOpts, rag.WithTextSplitter(tokenSplitter))
	}

	pipeline, err := rag.New(
		vs,
		gen,
		loader.NewPDFLoader(ocrClient, loader.WithRasterDPI(cfg.OCR.RasterDPI)),
		loader.NewImageLoader(ocrClient),
		ragOpts...,
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return pipeline, cleanup, nil
}

func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai":
		oc := cfg.Embedder.OpenAI
		key := oc.APIKey()
		if key == "" {
			return nil, fmt.Errorf("embedder: %s is not set", oc.APIKeyEnv)
		}
		return openaiadapter.NewEmbedderWithBaseURL(key, oc.BaseURL,
			embedding.WithModel(oc.Model),
			embedding.WithDimensions(cfg.Embedder.Dimensions),
		), nil
	case "local":
		return localembed.New(embedding.WithDimensions(cfg.Embedder.Dimensions)), nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return sqlitestore.Open(cfg.Store.PersistDir, cfg.Store.Collection)
	case "pgvector":
		dim := cfg.Store.Dimension
		if dim == 0 {
			dim = localembed.DefaultDimensions
		}
		return pgvector.NewStore(ctx, cfg.Store.ConnString, pgvector.Options{
			TableName: tableName(cfg.Store.Collection),
			Dimension: dim,
		})
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}

func buildGenerator(ctx context.Context, cfg *config.Config) (generator.Generator, error) {
	switch cfg.Generator.Type {
	case "openai", "openrouter":
		oc := cfg.Generator.OpenAI
		key := oc.APIKey()
		if key == "" {
			return nil, fmt.Errorf("generator: %s is not set", oc.APIKeyEnv)
		}
		model := openaiadapter.NewLLMWithBaseURL(key, oc.BaseURL, oc.Model)
		return generator.NewLLMGenerator(model), nil
	case "bedrock":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		model := bedrock.NewLLM(client, bedrock.ModelID(cfg.Generator.BedrockModel))
		return generator.NewLLMGenerator(model), nil
	case "extractive":
		return generator.NewExtractive(), nil
	default:
		return nil, fmt.Errorf("unknown generator type %q", cfg.Generator.Type)
	}
}

// buildHistory chooses where the exchange log lives: next to the
// vectors in PostgreSQL when that is already configured, otherwise in
// memory.
func buildHistory(ctx context.Context, cfg *config.Config) (history.Repository, func(), error) {
	if cfg.Store.Type == "pgvector" && cfg.Store.ConnString != "" {
		pool, err := pgxpool.New(ctx, cfg.Store.ConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting history pool: %w", err)
		}
		repo, err := pghistory.New(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := repo.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("initializing history schema: %w", err)
		}
		return repo, pool.Close, nil
	}
	return memhistory.New(0), func() {}, nil
}

// tableName makes a collection name safe to splice into SQL.
func tableName(collection string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, collection)
}
