//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"whisper-api/internal/api/server"
)

// InitializeServer builds the HTTP service with all dependencies.
func InitializeServer() (*server.Server, func(), error) {
	wire.Build(coreSet, pipelineSet, serverSet)
	return nil, nil, nil
}

// InitializeRuntime builds the pipeline for one-shot CLI use.
func InitializeRuntime() (*Runtime, func(), error) {
	wire.Build(coreSet, pipelineSet, wire.Struct(new(Runtime), "*"))
	return nil, nil, nil
}
