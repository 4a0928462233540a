package api

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Trendyol/go-cdc-alert/alert"
	"github.com/Trendyol/go-cdc-alert/config"
	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/logger"
	"github.com/Trendyol/go-cdc-alert/metric"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
)

// fiberprometheus registers its collectors on creation, so one instance is
// shared by every API built on the same registerer.
var (
	httpMetricsMu sync.Mutex
	httpMetrics   = map[prometheus.Registerer]*fiberprometheus.FiberPrometheus{}
)

type API interface {
	Listen()
	Shutdown()
	App() *fiber.App
}

type api struct {
	app        *fiber.App
	config     *config.Alert
	registerer *metric.Registerer
}

func (s *api) Listen() {
	logger.Log.Info("api starting on port %d", s.config.API.Port)

	err := s.app.Listen(fmt.Sprintf(":%d", s.config.API.Port))
	if err != nil {
		logger.Log.Error("api cannot start on port %d, err: %v", s.config.API.Port, err)
	} else {
		logger.Log.Info("api stopped")
	}
}

func (s *api) Shutdown() {
	if err := s.app.Shutdown(); err != nil {
		logger.Log.Error("api cannot be shutdown, err: %v", err)
	}

	s.registerer.UnregisterAll()
}

func (s *api) App() *fiber.App {
	return s.app
}

// status reports whether the directory holding the alert log is reachable.
func (s *api) status(c *fiber.Ctx) error {
	dir := filepath.Dir(s.config.File)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("log directory is not reachable: " + dir)
	}

	return c.SendString("OK")
}

func (s *api) configuration(c *fiber.Ctx) error {
	return c.JSON(s.config)
}

func NewAPI(config *config.Alert, processor alert.Processor, registerer prometheus.Registerer) API {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})

	api := &api{
		app:        app,
		config:     config,
		registerer: metric.WrapWithRegisterer(registerer),
	}

	if err := api.registerer.RegisterAll(metric.NewMetricCollector(processor)); err != nil {
		logger.Log.Error("metric collector cannot be registered: %v", err)
	}

	if middleware, err := newMetricMiddleware(app, config, registerer); err == nil {
		app.Use(middleware)
	} else {
		logger.Log.Error("metric middleware cannot be initialized: %v", err)
	}

	app.Get("/status", api.status)
	app.Get("/config", api.configuration)

	return api
}

func newMetricMiddleware(
	app *fiber.App,
	config *config.Alert,
	registerer prometheus.Registerer,
) (func(ctx *fiber.Ctx) error, error) {
	fiberPrometheus, err := httpMetricsFor(registerer)
	if err != nil {
		return nil, err
	}

	fiberPrometheus.RegisterAt(app, config.Metric.Path)

	logger.Log.Info("metric middleware registered on path %s", config.Metric.Path)

	return fiberPrometheus.Middleware, nil
}

func httpMetricsFor(registerer prometheus.Registerer) (fp *fiberprometheus.FiberPrometheus, err error) {
	httpMetricsMu.Lock()
	defer httpMetricsMu.Unlock()

	if cached, ok := httpMetrics[registerer]; ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			fp, err = nil, fmt.Errorf("http metrics cannot be registered: %v", r)
		}
	}()

	fp = fiberprometheus.NewWithRegistry(registerer, helpers.Name, "http", "", nil)
	httpMetrics[registerer] = fp

	return fp, nil
}
