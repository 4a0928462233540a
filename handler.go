package cdcalert

import (
	"sync"
	"sync/atomic"

	"github.com/Trendyol/go-cdc-alert/alert"
	"github.com/Trendyol/go-cdc-alert/api"
	"github.com/Trendyol/go-cdc-alert/config"
	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/logfile"
	"github.com/Trendyol/go-cdc-alert/logger"
	"github.com/Trendyol/go-cdc-alert/models"
	"github.com/Trendyol/go-cdc-alert/trace"

	"github.com/asaskevich/EventBus"
	"github.com/prometheus/client_golang/prometheus"
)

type AlertHandler interface {
	// Handle is the callback the CDC engine invokes for every alert. It never
	// fails towards the caller.
	Handle(
		zoneID int,
		categoryID int,
		sourceOrTarget string,
		name string,
		eventID int,
		eventText string,
		otherInfo map[string]string,
	)
	Close()
	GetConfig() *config.Alert
	GetMetric() alert.MetricSnapshot
	SetEventHandler(handler models.EventHandler)
}

type alertHandler struct {
	processor    alert.Processor
	trace        trace.Sink
	api          api.API
	bus          EventBus.Bus
	eventHandler atomic.Pointer[models.EventHandler]
	config       *config.Alert
	apiShutdown  chan struct{}
	closeOnce    sync.Once
}

func (h *alertHandler) Handle(
	zoneID int,
	categoryID int,
	sourceOrTarget string,
	name string,
	eventID int,
	eventText string,
	otherInfo map[string]string,
) {
	h.processor.Process(&models.Event{
		ZoneID:         zoneID,
		CategoryID:     categoryID,
		SourceOrTarget: models.Side(sourceOrTarget),
		Name:           name,
		EventID:        eventID,
		EventText:      eventText,
		OtherInfo:      otherInfo,
	})
}

func (h *alertHandler) Close() {
	h.closeOnce.Do(func() {
		if h.api != nil {
			h.apiShutdown <- struct{}{}
		}

		h.trace.Close()

		logger.Log.Info("alert handler closed")
	})
}

func (h *alertHandler) GetConfig() *config.Alert {
	return h.config
}

func (h *alertHandler) GetMetric() alert.MetricSnapshot {
	return h.processor.GetMetric().Snapshot()
}

func (h *alertHandler) SetEventHandler(handler models.EventHandler) {
	if handler == nil {
		handler = models.DefaultEventHandler
	}

	h.eventHandler.Store(&handler)
}

func (h *alertHandler) afterAlertLogged(event *models.Event) {
	(*h.eventHandler.Load()).AfterAlertLogged(event)
}

func (h *alertHandler) afterLogRotated(rotatedPath string) {
	logger.Log.Info("alert log rotated to %s", rotatedPath)
	(*h.eventHandler.Load()).AfterLogRotated(rotatedPath)
}

func (h *alertHandler) startAPI() {
	h.api = api.NewAPI(h.config, h.processor, prometheus.DefaultRegisterer)

	go func() {
		<-h.apiShutdown
		h.api.Shutdown()
	}()

	go h.api.Listen()
}

func newAlertHandler(config *config.Alert) (AlertHandler, error) {
	sink := trace.NewSink(config.Trace, logger.Log)

	writer, err := logfile.NewWriter(config.File, config.MaxSizeBytes())
	if err != nil {
		return nil, err
	}

	bus := EventBus.New()

	handler := &alertHandler{
		config:      config,
		trace:       sink,
		bus:         bus,
		processor:   alert.NewProcessor(config, sink, writer, bus),
		apiShutdown: make(chan struct{}, 1),
	}
	handler.SetEventHandler(models.DefaultEventHandler)

	if err = bus.Subscribe(helpers.AlertLoggedBusEventName, handler.afterAlertLogged); err != nil {
		return nil, err
	}

	if err = bus.Subscribe(helpers.LogRotatedBusEventName, handler.afterLogRotated); err != nil {
		return nil, err
	}

	if config.API.Enabled {
		handler.startAPI()
	}

	logger.Log.Info("alert handler writing to %s", config.File)

	return handler, nil
}

// NewAlertHandler loads configuration from ALERT_PROP_FILE (or alertfile.properties)
// and builds a handler; an unreadable source falls back to defaults.
func NewAlertHandler() (AlertHandler, error) {
	return NewAlertHandlerWithConfig(helpers.LoadConfig())
}

func NewAlertHandlerWithConfig(config *config.Alert) (AlertHandler, error) {
	config.ApplyDefaults()
	logger.InitDefaultLogger(config.Logging.Level)

	return newAlertHandler(config)
}

// NewAlertHandlerWithLoggers routes diagnostics to the host's logging facility.
func NewAlertHandlerWithLoggers(config *config.Alert, hostLogger logger.Logger) (AlertHandler, error) {
	config.ApplyDefaults()
	logger.SetLogger(hostLogger)

	return newAlertHandler(config)
}
