package alert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Trendyol/go-cdc-alert/config"
	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/logfile"
	"github.com/Trendyol/go-cdc-alert/models"
	"github.com/Trendyol/go-cdc-alert/trace"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrNilEvent = errors.New("alert event is nil")
	ErrPanic    = errors.New("alert processing panicked")
)

type Processor interface {
	// Process never returns an error and never panics; failures are reported
	// through the trace sink.
	Process(event *models.Event)
	GetMetric() *Metric
}

type processor struct {
	config *config.Alert
	trace  trace.Sink
	writer logfile.Writer
	bus    EventBus.Bus
	clock  func() time.Time
	metric *Metric
}

func (p *processor) GetMetric() *Metric {
	return p.metric
}

func (p *processor) Process(event *models.Event) {
	p.metric.received.Add(1)

	if event == nil {
		p.metric.failed.Add(1)
		p.trace.WriteAlways(ErrNilEvent.Error())
		return
	}

	p.traceEvent(event)

	if err := p.process(event); err != nil {
		p.metric.failed.Add(1)
		p.trace.WriteAlways(fmt.Sprintf("cannot write alert %d (%s): %v", event.EventID, event.Name, err))
	}
}

func (p *processor) process(event *models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	category := p.effectiveCategory(event)
	if !p.isLoggable(category) {
		p.metric.filtered.Add(1)
		return nil
	}

	rotatedPath, err := p.writer.Append(p.format(event, category))
	if err != nil {
		return err
	}

	p.metric.addLogged(category)

	if rotatedPath != "" {
		p.metric.rotated.Add(1)
		p.trace.Write(fmt.Sprintf("alert log %s rotated to %s", p.writer.Path(), rotatedPath))
	}

	p.publish(helpers.AlertLoggedBusEventName, event)

	if rotatedPath != "" {
		p.publish(helpers.LogRotatedBusEventName, rotatedPath)
	}

	return nil
}

func (p *processor) effectiveCategory(event *models.Event) int {
	if p.config.IsEscalated(event.EventID) {
		return models.CategoryEscalated
	}

	return event.CategoryID
}

// isLoggable keeps the escalation sentinel and everything at least as severe
// as the configured minimum (lower value means more severe).
func (p *processor) isLoggable(category int) bool {
	return category == models.CategoryEscalated || category <= p.config.MinimumCategory
}

func (p *processor) format(event *models.Event, category int) string {
	categoryLabel, ok := models.CategoryLabel(category)
	if !ok {
		categoryLabel = helpers.UnknownLabel
		p.trace.WriteAlways(fmt.Sprintf("alert %d has unknown category %d", event.EventID, category))
	}

	zoneLabel, ok := models.ZoneLabel(event.AdjustedZoneID())
	if !ok {
		zoneLabel = helpers.UnknownLabel
		p.trace.WriteAlways(fmt.Sprintf(
			"alert %d has unknown zone %d (%s)", event.EventID, event.ZoneID, event.SourceOrTarget,
		))
	}

	fields := []string{
		p.clock().Format(helpers.TimestampLayout),
		string(event.SourceOrTarget),
		event.Name,
		strconv.Itoa(event.EventID),
		categoryLabel,
		zoneLabel,
		event.EventText,
	}

	return strings.Join(fields, p.config.Separator) + "\n"
}

func (p *processor) traceEvent(event *models.Event) {
	if !p.trace.Enabled() {
		return
	}

	payload, err := jsoniter.MarshalToString(event)
	if err != nil {
		p.trace.Write(fmt.Sprintf("alert received: %d", event.EventID))
		return
	}

	p.trace.Write("alert received: " + payload)
}

// publish runs subscriber hooks after the line is on disk; a panicking hook
// is reported without marking the alert as failed.
func (p *processor) publish(topic string, arg interface{}) {
	if p.bus == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.metric.hookFailed.Add(1)
			p.trace.WriteAlways(fmt.Sprintf("%s hook panicked: %v", topic, r))
		}
	}()

	p.bus.Publish(topic, arg)
}

func NewProcessor(config *config.Alert, sink trace.Sink, writer logfile.Writer, bus EventBus.Bus) Processor {
	return NewProcessorWithClock(config, sink, writer, bus, time.Now)
}

func NewProcessorWithClock(
	config *config.Alert,
	sink trace.Sink,
	writer logfile.Writer,
	bus EventBus.Bus,
	clock func() time.Time,
) Processor {
	return &processor{
		config: config,
		trace:  sink,
		writer: writer,
		bus:    bus,
		clock:  clock,
		metric: newMetric(),
	}
}
