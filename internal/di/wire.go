//go:build wireinject
// +build wireinject

package di

import (
	"github.com/lab1702/trading-app/pkg/config"
	"github.com/lab1702/trading-app/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCacheStore,
		ProvideMemo,
		ProvideFetcher,

		// Domain services
		ProvideSymbolValidator,
		ProvideSymbolTable,
		ProvideStrategyEngine,
		ProvideForecastEngine,
		ProvideHub,
		ProvideNotifyCenter,

		// Use cases
		ProvideDashboardService,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
