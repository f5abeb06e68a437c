//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/slidegen/internal/bootstrap"
	"github.com/yanqian/slidegen/internal/domain/auth"
	"github.com/yanqian/slidegen/internal/domain/generation"
	"github.com/yanqian/slidegen/internal/domain/history"
	"github.com/yanqian/slidegen/internal/domain/topics"
	"github.com/yanqian/slidegen/internal/infra/config"
	"github.com/yanqian/slidegen/internal/infra/procexec"
	httpiface "github.com/yanqian/slidegen/internal/interface/http"
	"github.com/yanqian/slidegen/pkg/logger"
)

func initializeApp(mode config.Mode) (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGenerationConfig,
		provideRunner,
		provideAuthConfig,
		providePostgresPool,
		provideAuthRepository,
		provideHistoryRepository,
		provideTopicStore,
		provideTopicTracker,
		provideArtifactMirror,
		provideTracer,
		topics.NewService,
		generation.NewService,
		auth.NewService,
		history.NewService,
		wire.Bind(new(generation.Runner), new(*procexec.Executor)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
