// RAGScope compares retrieval-augmented generation strategies (CRAG,
// Self-RAG, Adaptive-RAG) side by side against a shared question and a shared
// vector index. It serves a dashboard by default; -ask runs a one-shot
// comparison and prints a terminal report.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kataras/golog"

	"github.com/ragscope/ragscope/cache"
	cachepostgres "github.com/ragscope/ragscope/cache/postgres"
	cacheredis "github.com/ragscope/ragscope/cache/redis"
	cachesqlite "github.com/ragscope/ragscope/cache/sqlite"
	"github.com/ragscope/ragscope/config"
	"github.com/ragscope/ragscope/dashboard"
	"github.com/ragscope/ragscope/index"
	"github.com/ragscope/ragscope/ingest"
	"github.com/ragscope/ragscope/llm"
	"github.com/ragscope/ragscope/log"
	"github.com/ragscope/ragscope/report"
	"github.com/ragscope/ragscope/strategy"
	"github.com/ragscope/ragscope/websearch"
)

func main() {
	ask := flag.String("ask", "", "run a one-shot comparison for the question and exit")
	strategies := flag.String("strategies", "", "comma-separated strategy subset for -ask (default all)")
	flag.Parse()

	golog.SetLevel(getEnv("RAGSCOPE_LOG_LEVEL", "info"))
	logger := log.NewGologLogger(golog.Default)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	if err := client.Validate(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	embed := index.EmbedFunc(client.Embed)
	var idx index.Index
	if cfg.IndexPath != "" {
		chromemIdx, err := index.NewChromemIndex(cfg.IndexPath, cfg.IndexCollection, embed)
		if err != nil {
			logger.Error("open index: %v", err)
			os.Exit(1)
		}
		idx = chromemIdx
	} else {
		idx = index.NewMemoryIndex()
	}

	pipeline := ingest.NewPipeline(idx, embed, ingest.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Logger:       logger,
	})
	if cfg.CorpusDir != "" {
		if _, err := pipeline.IngestDir(ctx, cfg.CorpusDir); err != nil {
			logger.Error("ingest corpus dir: %v", err)
			os.Exit(1)
		}
	}
	if len(cfg.CorpusURLs) > 0 {
		if _, err := pipeline.IngestURLs(ctx, cfg.CorpusURLs); err != nil {
			logger.Error("ingest corpus urls: %v", err)
			os.Exit(1)
		}
	}
	logger.Info("index ready with %d documents", idx.Count())

	steps := &strategy.Steps{
		LLM:    client,
		Index:  idx,
		TopK:   cfg.TopK,
		Logger: logger,
	}
	if cfg.BraveKey != "" {
		search, err := websearch.NewBraveSearch(cfg.BraveKey)
		if err != nil {
			logger.Error("web search: %v", err)
			os.Exit(1)
		}
		steps.Search = search
	}

	store, err := openCache(ctx, cfg)
	if err != nil {
		logger.Error("open cache: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	runner := strategy.NewRunner(strategy.WithCache(store), strategy.WithLogger(logger))
	if err := registerStrategies(runner, steps, cfg); err != nil {
		logger.Error("build strategies: %v", err)
		os.Exit(1)
	}

	if *ask != "" {
		var names []string
		if *strategies != "" {
			names = splitNames(*strategies)
		}
		results := runner.Compare(ctx, *ask, names...)
		fmt.Println(report.Render(*ask, results))
		return
	}

	serve(runner, logger, cfg.ListenAddr)
}

func registerStrategies(runner *strategy.Runner, steps *strategy.Steps, cfg config.Config) error {
	cragOpts := strategy.CRAGOptions{MaxRewrites: cfg.MaxRewrites, MaxSteps: cfg.MaxSteps}

	crag, err := strategy.NewCRAG(steps, cragOpts)
	if err != nil {
		return err
	}
	selfrag, err := strategy.NewSelfRAG(steps, strategy.SelfRAGOptions{MaxSteps: cfg.MaxSteps})
	if err != nil {
		return err
	}
	adaptive, err := strategy.NewAdaptive(steps, strategy.AdaptiveOptions{CRAG: cragOpts, MaxSteps: cfg.MaxSteps})
	if err != nil {
		return err
	}

	runner.Register(crag)
	runner.Register(selfrag)
	runner.Register(adaptive)
	return nil
}

func openCache(ctx context.Context, cfg config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "redis":
		return cacheredis.New(cacheredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), nil
	case "sqlite":
		return cachesqlite.New(cachesqlite.Options{Path: cfg.SQLitePath})
	case "postgres":
		return cachepostgres.New(ctx, cachepostgres.Options{ConnString: cfg.PostgresDSN})
	default:
		return cache.NewMemoryStore(), nil
	}
}

func serve(runner *strategy.Runner, logger log.Logger, addr string) {
	srv := dashboard.New(runner, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server: %v", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown: %v", err)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
