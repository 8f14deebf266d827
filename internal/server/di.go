package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/research_copilot/internal/service"
	"github.com/iWorld-y/research_copilot/pkg/engine"
	"github.com/iWorld-y/research_copilot/pkg/newsfeed"
	"github.com/iWorld-y/research_copilot/pkg/speech"
)

// ProviderSet 是服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewEngine,
	NewNewsCache,
	NewSpeechClient,

	// Service providers
	service.NewCopilotService,
	wire.Bind(new(service.Pipeline), new(*engine.Engine)),
	wire.Bind(new(service.NewsProvider), new(*newsfeed.Cache)),
	wire.Bind(new(service.SpeechProvider), new(*speech.Client)),
)
