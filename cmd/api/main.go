package main

import (
	"fmt"

	"github.com/gomantics/repolens/api"
	"github.com/gomantics/repolens/config"
	"github.com/gomantics/repolens/db"
	"github.com/gomantics/repolens/domains/analysis"
	"github.com/gomantics/repolens/domains/jobs"
	"github.com/gomantics/repolens/domains/openai"
	"github.com/gomantics/repolens/libs/githost"
	"github.com/gomantics/repolens/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			logger.New,
			provideFetcher,
			provideStore,
			provideModel,
		),
		fx.Decorate(func(l *zap.Logger) *zap.Logger {
			return l.With(zap.String("service", "repolens"))
		}),
		fx.Invoke(
			api.Run,
			analysis.StartWorkers,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: l,
			}
		}),
	).Run()
}

func provideFetcher(l *zap.Logger) (githost.Fetcher, error) {
	switch backend := config.Ingestion.Fetcher(); backend {
	case "api":
		return githost.NewAPIFetcher(l, config.Github.BaseURL()), nil
	case "clone":
		return githost.NewCloneFetcher(l, config.Ingestion.CloneDir()), nil
	default:
		return nil, fmt.Errorf("unknown ingestion fetcher backend: %s", backend)
	}
}

func provideStore(lc fx.Lifecycle, l *zap.Logger) (jobs.Store, error) {
	switch backend := config.Jobs.Store(); backend {
	case "memory":
		return jobs.NewMemoryStore(), nil
	case "postgres":
		if err := db.Init(lc, l); err != nil {
			return nil, err
		}
		return jobs.NewPostgresStore(db.GetPool()), nil
	default:
		return nil, fmt.Errorf("unknown job store backend: %s", backend)
	}
}

func provideModel() (analysis.ModelClient, error) {
	return openai.NewClient()
}
