package planner

import (
	"gridflow/pkg/cache"
	"gridflow/pkg/config"
	"gridflow/pkg/logger"
	"gridflow/pkg/metrics"
)

// NewFromConfig assembles a Planner from a loaded configuration: logger
// setup, optional metrics registration, and an optional plan cache on the
// configured backend. This is the one-stop constructor for hosts; tests
// and embedded uses typically call New directly.
func NewFromConfig(cfg *config.Config) (*Planner, error) {
	if cfg == nil {
		c, err := config.NewLoader().Load()
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	opts := []Option{
		WithDefaultMethod(cfg.Planner.Method),
		WithLogger(logger.Default()),
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, WithMetrics(metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)))
	}

	if cfg.Cache.Enabled {
		backend, err := cache.New(&cache.Options{
			Backend:       cfg.Cache.Backend,
			DefaultTTL:    cfg.Cache.TTL,
			MaxEntries:    cfg.Cache.MaxItems,
			RedisAddr:     cfg.Cache.Redis.Addr,
			RedisPassword: cfg.Cache.Redis.Password,
			RedisDB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCache(cache.NewPlanCache(backend, cfg.Cache.TTL)))
	}

	return New(opts...), nil
}
