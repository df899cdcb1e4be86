package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "photopick/internal/middleware"
	httprouters "photopick/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// StaticConfig maps public URL prefixes to the on-disk photo and thumbnail
// directories served by the transport.
type StaticConfig struct {
	PhotosDir string
	PhotosURL string
	ThumbsDir string
	ThumbsURL string
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	static  StaticConfig
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers, static StaticConfig) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(appmw.PrometheusMetrics)

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		static:  static,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	if s.static.PhotosDir != "" {
		s.e.Static(s.static.PhotosURL, s.static.PhotosDir)
	}
	if s.static.ThumbsDir != "" {
		s.e.Static(s.static.ThumbsURL, s.static.ThumbsDir)
	}

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	api := s.e.Group("/api/v1")
	{
		itemGroup := api.Group("/items")
		{
			itemGroup.GET("", s.routers.ListItems)
			itemGroup.POST("/upload", s.routers.BulkUpload)
			itemGroup.POST("/:id/caption", s.routers.UpdateCaption)
			itemGroup.DELETE("/:id", s.routers.DeleteItem)
		}

		listGroup := api.Group("/lists")
		{
			listGroup.GET("", s.routers.Lists)
			listGroup.GET("/names", s.routers.ListNames)
			listGroup.POST("/:name", s.routers.CreateList)
			listGroup.POST("/:name/votes", s.routers.Vote)
			listGroup.GET("/:name/items", s.routers.GetListView)
		}

		collectionGroup := api.Group("/collections")
		{
			collectionGroup.GET("", s.routers.Collections)
			collectionGroup.POST("", s.routers.CreateCollection)
		}
	}
}
