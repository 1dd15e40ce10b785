package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"rerank/internal/chunker"
	"rerank/internal/config"
	"rerank/internal/domain"
	"rerank/internal/emphasis"
	"rerank/internal/logging"
	"rerank/internal/scorer/crossencoder"
	"rerank/internal/scorer/embedding"
	"rerank/internal/scorer/lexical"
	"rerank/internal/scorer/tfidf"
	"rerank/internal/service"
)

// app bundles the components assembled from configuration.
type app struct {
	cfg     *config.AppConfig
	log     *zap.Logger
	chunker domain.Chunker
	service domain.RankService
}

func loadConfig(gf *globalFlags) (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if gf.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(gf.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if gf.scorer != "" {
		cfg.Scorer.Type = gf.scorer
	}
	if gf.logLevel != "" {
		cfg.Log.Level = gf.logLevel
	}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// newApp assembles components via interfaces.
func newApp(gf *globalFlags) (*app, error) {
	cfg, err := loadConfig(gf)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	sc, err := newScorer(cfg.Scorer)
	if err != nil {
		return nil, err
	}
	ch, err := chunker.New(cfg.Chunker.Type, cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	if err != nil {
		return nil, err
	}
	emph := emphasis.Emphasizer{
		Factor:    cfg.Emphasis.Factor,
		Separator: cfg.EmphasisSeparator(),
		Disabled:  !cfg.Emphasis.Enabled,
	}
	log.Debug("components ready",
		zap.String("scorer", sc.Name()),
		zap.String("chunker", cfg.Chunker.Type),
		zap.Int("emphasis_factor", emph.Factor),
		zap.Bool("emphasis_enabled", !emph.Disabled),
		zap.String("emphasis_separator", emph.Separator),
	)
	svc := service.NewRankService(sc,
		service.WithEmphasizer(emph),
		service.WithLogger(log),
	)
	return &app{cfg: cfg, log: log, chunker: ch, service: svc}, nil
}

func newScorer(cfg config.ScorerConfig) (domain.Scorer, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewScorer(), nil
	case "lexical":
		return lexical.NewScorer(), nil
	case "crossencoder":
		if cfg.CrossEncoder == nil {
			return nil, fmt.Errorf("cross_encoder scorer config missing")
		}
		s, err := crossencoder.NewScorer(crossencoder.Config{
			URL:       cfg.CrossEncoder.URL,
			APIKeyEnv: cfg.CrossEncoder.APIKeyEnv,
			Model:     cfg.CrossEncoder.Model,
			Format:    cfg.CrossEncoder.Format,
			Timeout:   time.Duration(cfg.CrossEncoder.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("crossencoder scorer init failed: %w", err)
		}
		return s, nil
	case "embedding":
		if cfg.Embedding == nil {
			return nil, fmt.Errorf("embedding scorer config missing")
		}
		s, err := embedding.NewScorer(embedding.Config{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKeyEnv: cfg.Embedding.APIKeyEnv,
			Model:     cfg.Embedding.Model,
			Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding scorer init failed: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown scorer: %s", cfg.Type)
	}
}
