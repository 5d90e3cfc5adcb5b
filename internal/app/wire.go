//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/google/wire"
	"github.com/gorilla/mux"

	"github.com/eslsoft/linguatrack/internal/adapter/repository"
	"github.com/eslsoft/linguatrack/internal/adapter/rest"
	"github.com/eslsoft/linguatrack/internal/infrastructure/config"
	"github.com/eslsoft/linguatrack/internal/infrastructure/database"
	"github.com/eslsoft/linguatrack/internal/infrastructure/server"
	"github.com/eslsoft/linguatrack/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	repository.NewResultRepository,
	repository.NewStreakRepository,
	repository.NewWordRepository,
	repository.NewCatalogRepository,
	repository.NewProfileRepository,
)

var usecaseSet = wire.NewSet(
	usecase.NewProgressUsecase,
	usecase.NewWordUsecase,
)

var restSet = wire.NewSet(
	rest.NewProgressHandler,
	rest.NewWordHandler,
	rest.NewRouter,
	wire.Bind(new(http.Handler), new(*mux.Router)),
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		restSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
