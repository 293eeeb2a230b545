package server

import (
	"context"
	"net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/service"
)

const (
	OperationHealthCheck         = "/moviehub.v1.MovieService/HealthCheck"
	OperationListMovies          = "/moviehub.v1.MovieService/ListMovies"
	OperationCreateMovie         = "/moviehub.v1.MovieService/CreateMovie"
	OperationGetMovie            = "/moviehub.v1.MovieService/GetMovie"
	OperationUpdateMovie         = "/moviehub.v1.MovieService/UpdateMovie"
	OperationDeleteMovie         = "/moviehub.v1.MovieService/DeleteMovie"
	OperationRateMovie           = "/moviehub.v1.MovieService/RateMovie"
	OperationGetRating           = "/moviehub.v1.MovieService/GetRating"
	OperationGetReviewDraft      = "/moviehub.v1.MovieService/GetReviewDraft"
	OperationSaveReview          = "/moviehub.v1.MovieService/SaveReview"
	OperationDeleteReview        = "/moviehub.v1.MovieService/DeleteReview"
	OperationToggleWatchlist     = "/moviehub.v1.MovieService/ToggleWatchlist"
	OperationListWatchlist       = "/moviehub.v1.MovieService/ListWatchlist"
	OperationTopRated            = "/moviehub.v1.MovieService/TopRated"
	OperationMostRated           = "/moviehub.v1.MovieService/MostRated"
	OperationListCategories      = "/moviehub.v1.CatalogService/ListCategories"
	OperationGetCategory         = "/moviehub.v1.CatalogService/GetCategory"
	OperationCreateCategory      = "/moviehub.v1.CatalogService/CreateCategory"
	OperationDeleteCategory      = "/moviehub.v1.CatalogService/DeleteCategory"
	OperationListUpcomingMovies  = "/moviehub.v1.CatalogService/ListUpcomingMovies"
	OperationGetUpcomingMovie    = "/moviehub.v1.CatalogService/GetUpcomingMovie"
	OperationCreateUpcomingMovie = "/moviehub.v1.CatalogService/CreateUpcomingMovie"
	OperationUpdateUpcomingMovie = "/moviehub.v1.CatalogService/UpdateUpcomingMovie"
	OperationDeleteUpcomingMovie = "/moviehub.v1.CatalogService/DeleteUpcomingMovie"
	OperationRegister            = "/moviehub.v1.AccountService/Register"
	OperationLogin               = "/moviehub.v1.AccountService/Login"
	OperationGetProfile          = "/moviehub.v1.AccountService/GetProfile"
	OperationUpdateProfile       = "/moviehub.v1.AccountService/UpdateProfile"
	OperationDashboard           = "/moviehub.v1.AdminService/Dashboard"
	OperationListUsers           = "/moviehub.v1.AdminService/ListUsers"
	OperationDeleteUser          = "/moviehub.v1.AdminService/DeleteUser"
)

func registerRoutes(srv *khttp.Server, movies *service.MovieService, catalog *service.CatalogService, accounts *service.AccountService, admin *service.AdminService) {
	r := srv.Route("/")

	r.GET("/healthz", handle(OperationHealthCheck, false, movies.HealthCheck))

	r.POST("/v1/auth/register", handle(OperationRegister, true, accounts.Register))
	r.POST("/v1/auth/login", handle(OperationLogin, true, accounts.Login))
	r.GET("/v1/profile", handle(OperationGetProfile, false, accounts.GetProfile))
	r.PUT("/v1/profile", handle(OperationUpdateProfile, true, accounts.UpdateProfile))

	r.GET("/v1/movies", handle(OperationListMovies, false, movies.ListMovies))
	r.POST("/v1/movies", handle(OperationCreateMovie, true, movies.CreateMovie))
	r.GET("/v1/movies/{id}", handle(OperationGetMovie, false, movies.GetMovie))
	r.PUT("/v1/movies/{id}", handle(OperationUpdateMovie, true, movies.UpdateMovie))
	r.DELETE("/v1/movies/{id}", handle(OperationDeleteMovie, false, movies.DeleteMovie))
	r.POST("/v1/movies/{id}/rating", handle(OperationRateMovie, true, movies.RateMovie))
	r.GET("/v1/movies/{id}/rating", handle(OperationGetRating, false, movies.GetRating))
	r.GET("/v1/movies/{id}/review", handle(OperationGetReviewDraft, false, movies.GetReviewDraft))
	r.PUT("/v1/movies/{id}/review", handle(OperationSaveReview, true, movies.SaveReview))
	r.DELETE("/v1/reviews/{id}", handle(OperationDeleteReview, false, movies.DeleteReview))
	r.POST("/v1/movies/{id}/watchlist", handle(OperationToggleWatchlist, false, movies.ToggleWatchlist))
	r.GET("/v1/watchlist", handle(OperationListWatchlist, false, movies.ListWatchlist))
	r.GET("/v1/rankings/top-rated", handle(OperationTopRated, false, movies.TopRated))
	r.GET("/v1/rankings/popular", handle(OperationMostRated, false, movies.MostRated))

	r.GET("/v1/categories", handle(OperationListCategories, false, catalog.ListCategories))
	r.POST("/v1/categories", handle(OperationCreateCategory, true, catalog.CreateCategory))
	r.GET("/v1/categories/{id}", handle(OperationGetCategory, false, catalog.GetCategory))
	r.DELETE("/v1/categories/{id}", handle(OperationDeleteCategory, false, catalog.DeleteCategory))

	r.GET("/v1/upcoming", handle(OperationListUpcomingMovies, false, catalog.ListUpcomingMovies))
	r.POST("/v1/upcoming", handle(OperationCreateUpcomingMovie, true, catalog.CreateUpcomingMovie))
	r.GET("/v1/upcoming/{id}", handle(OperationGetUpcomingMovie, false, catalog.GetUpcomingMovie))
	r.PUT("/v1/upcoming/{id}", handle(OperationUpdateUpcomingMovie, true, catalog.UpdateUpcomingMovie))
	r.DELETE("/v1/upcoming/{id}", handle(OperationDeleteUpcomingMovie, false, catalog.DeleteUpcomingMovie))

	r.GET("/v1/admin/dashboard", handle(OperationDashboard, false, admin.Dashboard))
	r.GET("/v1/admin/users", handle(OperationListUsers, false, admin.ListUsers))
	r.DELETE("/v1/admin/users/{id}", handle(OperationDeleteUser, false, admin.DeleteUser))
}

// handle binds the request (JSON body when withBody, then query, then path
// variables so the path wins) and runs the service method through the server
// middleware chain.
func handle[Req, Reply any](operation string, withBody bool, fn func(context.Context, *Req) (*Reply, error)) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		var in Req
		if withBody {
			if err := ctx.Bind(&in); err != nil {
				return err
			}
		}
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}

		khttp.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	}
}
