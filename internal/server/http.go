package server

import (
	"context"
	"net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/selector"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/service"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// Custom response encoder so replies can choose their status, e.g. 201 for
// resource creation.
func customResponseEncoder(w http.ResponseWriter, r *http.Request, v interface{}) error {
	type StatusResponse interface {
		HTTPStatus() int
	}

	if sr, ok := v.(StatusResponse); ok {
		w.WriteHeader(sr.HTTPStatus())
	}

	// Use default encoder for the response body
	return khttp.DefaultResponseEncoder(w, r, v)
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	authConf *conf.Auth,
	tokens *auth.Manager,
	users *biz.UserUseCase,
	movieSvc *service.MovieService,
	catalogSvc *service.CatalogService,
	accountSvc *service.AccountService,
	adminSvc *service.AdminService,
	logger log.Logger,
) (*khttp.Server, error) {
	rateLimit, err := RateLimitMiddleware(authConf)
	if err != nil {
		return nil, err
	}

	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			tracing.Server(),
			logging.Server(logger),
			MetricsMiddleware(),
			AuthMiddleware(tokens, users),
			selector.Server(rateLimit).Match(isWriteOperation).Build(),
		),
		khttp.ResponseEncoder(customResponseEncoder),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, khttp.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, khttp.Address(c.Http.Addr))
		}
		if c.Http.Timeout != nil {
			opts = append(opts, khttp.Timeout(c.Http.Timeout.AsDuration()))
		}
	}
	srv := khttp.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	registerRoutes(srv, movieSvc, catalogSvc, accountSvc, adminSvc)
	return srv, nil
}

// isWriteOperation matches every request that is not a read.
func isWriteOperation(ctx context.Context, _ string) bool {
	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return false
	}
	ht, ok := tr.(khttp.Transporter)
	if !ok {
		return false
	}
	switch ht.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
