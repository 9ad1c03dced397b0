// Command spark runs the matching API and its background workers.
package main

import (
	"context"
	"log/slog"

	"spark/config"
	"spark/internal/delivery"
	"spark/internal/delivery/http"
	"spark/internal/delivery/http/middleware"
	"spark/internal/delivery/http/router/handler"
	"spark/internal/delivery/worker"
	"spark/internal/infra/auth"
	"spark/internal/infra/geocode"
	logs "spark/internal/infra/log"
	"spark/internal/infra/persistence"
	"spark/internal/infra/pubsub"
	"spark/internal/infra/storage"
	"spark/internal/usecase/impl"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Module("infra", fx.Provide(
			config.New,
			logs.New,
			context.Background,
			persistence.New,
		)),
		fx.Module("services", fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			geocode.NewGeocoder,
			storage.New,
			pubsub.NewEventPublisher,
		)),
		fx.Module("usecases", fx.Provide(
			impl.NewAccountService,
			impl.NewProfileService,
			impl.NewLocationService,
			impl.NewSwipeService,
			impl.NewChatService,
			impl.NewImageService,
		)),
		fx.Module("http", fx.Provide(
			middleware.NewAuthMiddleware,
			handler.NewAuthHandler,
			handler.NewProfileHandler,
			handler.NewLocationHandler,
			handler.NewImageHandler,
			handler.NewSwipeHandler,
			handler.NewChatHandler,
		)),
		fx.Provide(
			asDelivery(http.NewServer),
			asDelivery(worker.NewSessionSweeper),
		),
		fx.Invoke(serve),
	).Run()
}

func asDelivery(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"deliveries"`))
}

type serveParams struct {
	fx.In

	Lc         fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

// serve starts every delivery once the graph is up. The first one that
// fails stops the whole application with a non-zero exit code.
func serve(ctx context.Context, params serveParams) {
	params.Lc.Append(fx.StartHook(func() {
		for _, d := range params.Deliveries {
			go func() {
				if err := d.Serve(ctx); err != nil {
					params.Logger.Error("delivery stopped", slog.Any("error", err))
					_ = params.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
		}
	}))
}
