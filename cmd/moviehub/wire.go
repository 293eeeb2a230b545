//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/data"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/server"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/service"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Auth, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, auth.ProviderSet, newApp))
}
