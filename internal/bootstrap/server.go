package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/carrental/api"
	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/cars"
	"github.com/Domenick1991/carrental/internal/service/dealer"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerPath = "/swagger/rentals.swagger.json"

type Services struct {
	Cars     cars.CarUseCase
	Bookings booking.BookingUseCase
	Dealer   dealer.DealerUseCase
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	SwaggerFile  string
	Today        api.Clock
	HealthChecks map[string]HealthCheck
}

func NewRouter(svc Services, authn *api.Authenticator, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", health(opts.HealthChecks))

	if opts.SwaggerFile != "" {
		r.StaticFile(swaggerPath, opts.SwaggerFile)
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerPath))))
	}

	apiGroup := r.Group("/api")
	api.NewCarHandler(svc.Cars, opts.Today).Register(apiGroup.Group("/cars"))

	user := apiGroup.Group("", authn.RequireUser())
	api.NewBookingHandler(svc.Bookings, opts.Today).Register(user.Group("/bookings"))
	api.NewFavoriteHandler(svc.Cars).Register(user.Group("/favorites"))

	dealerGroup := apiGroup.Group("/dealer", authn.RequireUser(), authn.RequireDealer())
	api.NewDealerHandler(svc.Dealer, svc.Bookings, opts.Today).Register(dealerGroup)

	return r
}

// Run serves handler on cfg.HTTP.Address and blocks until ctx is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", cfg.HTTP.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		c.JSON(status, result)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
