package alert

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Trendyol/go-cdc-alert/config"
	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/logfile"
	"github.com/Trendyol/go-cdc-alert/models"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 10, 18, 9, 30, 15, 0, time.Local)

type recordingSink struct {
	writes  []string
	always  []string
	enabled bool
}

func (s *recordingSink) Write(message string) {
	if s.enabled {
		s.writes = append(s.writes, message)
	}
}

func (s *recordingSink) WriteAlways(message string) {
	s.always = append(s.always, message)
}

func (s *recordingSink) Enabled() bool {
	return s.enabled
}

func (s *recordingSink) Close() {}

type panickingWriter struct{}

func (panickingWriter) Append(string) (string, error) {
	panic("boom")
}

func (panickingWriter) Path() string {
	return "panic.log"
}

func newTestConfig(t *testing.T) *config.Alert {
	t.Helper()

	c := &config.Alert{
		File:            filepath.Join(t.TempDir(), "alerts.log"),
		Size:            config.DefaultSize,
		MinimumCategory: config.DefaultMinimumCategory,
	}
	c.ApplyDefaults()

	return c
}

func newTestProcessor(t *testing.T, c *config.Alert, sink *recordingSink, bus EventBus.Bus) Processor {
	t.Helper()

	writer, err := logfile.NewWriterWithClock(c.File, c.MaxSizeBytes(), func() time.Time { return fixedTime })
	require.NoError(t, err)

	return NewProcessorWithClock(c, sink, writer, bus, func() time.Time { return fixedTime })
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestProcess_EscalatedEventIsAlwaysWarning(t *testing.T) {
	c := newTestConfig(t)
	c.WarningIDs = []int{1463}
	c.MinimumCategory = 1
	c.ApplyDefaults()

	p := newTestProcessor(t, c, &recordingSink{}, nil)

	for _, category := range []int{1, 3, 5, 9} {
		p.Process(&models.Event{ZoneID: 4, CategoryID: category, SourceOrTarget: models.Source, Name: "SUB1", EventID: 1463})
	}

	lines := readLines(t, c.File)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, "Warning", strings.Split(line, "|")[4])
	}
}

func TestProcess_FiltersByMinimumCategory(t *testing.T) {
	tests := []struct {
		category int
		logged   bool
	}{
		{category: -1, logged: true},
		{category: 0, logged: true},
		{category: models.CategoryFatal, logged: true},
		{category: models.CategoryError, logged: true},
		{category: models.CategoryInformation, logged: true},
		{category: models.CategoryStatus, logged: false},
		{category: models.CategoryOperational, logged: false},
		{category: models.CategoryWarning, logged: true},
		{category: 7, logged: false},
	}

	for _, tt := range tests {
		c := newTestConfig(t)
		c.MinimumCategory = models.CategoryInformation

		p := newTestProcessor(t, c, &recordingSink{}, nil)
		p.Process(&models.Event{ZoneID: 1, CategoryID: tt.category, SourceOrTarget: models.Source, EventID: 1})

		_, err := os.Stat(c.File)
		assert.Equal(t, tt.logged, err == nil, "category %d", tt.category)

		snapshot := p.GetMetric().Snapshot()
		if tt.logged {
			assert.Equal(t, int64(1), snapshot.Logged)
		} else {
			assert.Equal(t, int64(1), snapshot.Filtered)
		}
	}
}

func TestProcess_ZoneLabelDependsOnSide(t *testing.T) {
	c := newTestConfig(t)
	p := newTestProcessor(t, c, &recordingSink{}, nil)

	p.Process(&models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, EventID: 10})
	p.Process(&models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Target, EventID: 11})
	p.Process(&models.Event{ZoneID: 2, CategoryID: 1, SourceOrTarget: models.Target, EventID: 12})

	lines := readLines(t, c.File)
	require.Len(t, lines, 3)
	assert.Equal(t, "Scrape/Refresh", strings.Split(lines[0], "|")[5])
	assert.Equal(t, "Communication", strings.Split(lines[1], "|")[5])
	assert.Equal(t, "Apply", strings.Split(lines[2], "|")[5])
}

func TestProcess_NonLoggableEventNeverTouchesFile(t *testing.T) {
	c := newTestConfig(t)
	p := newTestProcessor(t, c, &recordingSink{}, nil)

	for i := 0; i < 10; i++ {
		p.Process(&models.Event{ZoneID: 1, CategoryID: 7, SourceOrTarget: models.Source, EventID: 99})
	}

	_, err := os.Stat(c.File)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, int64(10), p.GetMetric().Snapshot().Filtered)
}

func TestProcess_RotatesOnceWhenThresholdIsCrossed(t *testing.T) {
	c := newTestConfig(t)
	c.Size = 1

	p := newTestProcessor(t, c, &recordingSink{}, nil)
	event := &models.Event{
		ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, Name: "TABLE", EventID: 100,
		EventText: strings.Repeat("x", 100),
	}

	appends := 0
	for p.GetMetric().Snapshot().Rotated == 0 {
		p.Process(event)
		appends++
		require.Less(t, appends, 100)
	}

	rotatedPath := logfile.RotatedName(c.File, fixedTime)
	info, err := os.Stat(rotatedPath)
	require.NoError(t, err)

	lines := readLines(t, rotatedPath)
	lineLen := int64(len(lines[0]) + 1)
	assert.Len(t, lines, appends)
	assert.Greater(t, info.Size(), int64(1024))
	assert.LessOrEqual(t, info.Size()-lineLen, int64(1024))

	_, err = os.Stat(c.File)
	assert.True(t, os.IsNotExist(err))

	p.Process(event)

	assert.Len(t, readLines(t, c.File), 1)
	assert.Equal(t, int64(1), p.GetMetric().Snapshot().Rotated)
}

func TestProcess_LineRoundTrip(t *testing.T) {
	c := newTestConfig(t)
	c.Separator = "#"

	writer, err := logfile.NewWriter(c.File, c.MaxSizeBytes())
	require.NoError(t, err)

	p := NewProcessor(c, &recordingSink{}, writer, nil)
	p.Process(&models.Event{
		ZoneID: 3, CategoryID: 2, SourceOrTarget: models.Source, Name: "ORDERS", EventID: 2001,
		EventText: "Subscription stopped", OtherInfo: map[string]string{"k": "v"},
	})

	lines := readLines(t, c.File)
	require.Len(t, lines, 1)

	fields := strings.Split(lines[0], "#")
	require.Len(t, fields, 7)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`), fields[0])
	assert.Equal(t, []string{"S", "ORDERS", "2001", "Error", "Environment", "Subscription stopped"}, fields[1:])
}

func TestProcess_SwallowsWriteErrors(t *testing.T) {
	c := newTestConfig(t)
	c.File = filepath.Join(t.TempDir(), "missing", "alerts.log")

	sink := &recordingSink{}
	p := newTestProcessor(t, c, sink, nil)

	assert.NotPanics(t, func() {
		p.Process(&models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, Name: "T1", EventID: 5})
	})

	require.Len(t, sink.always, 1)
	assert.Contains(t, sink.always[0], "cannot write alert 5 (T1)")
	assert.Equal(t, int64(1), p.GetMetric().Snapshot().Failed)
}

func TestProcess_RecoversFromPanics(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessorWithClock(newTestConfig(t), sink, panickingWriter{}, nil, time.Now)

	assert.NotPanics(t, func() {
		p.Process(&models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, EventID: 5})
	})

	require.Len(t, sink.always, 1)
	assert.Contains(t, sink.always[0], ErrPanic.Error())
	assert.Contains(t, sink.always[0], "boom")
}

func TestProcess_ReportsNilEvent(t *testing.T) {
	sink := &recordingSink{}
	p := newTestProcessor(t, newTestConfig(t), sink, nil)

	p.Process(nil)

	assert.Equal(t, []string{ErrNilEvent.Error()}, sink.always)
	assert.Equal(t, int64(1), p.GetMetric().Snapshot().Failed)
}

func TestProcess_UsesUnknownLabelForOutOfRangeIndexes(t *testing.T) {
	c := newTestConfig(t)
	sink := &recordingSink{}
	p := newTestProcessor(t, c, sink, nil)

	p.Process(&models.Event{ZoneID: 4, CategoryID: 0, SourceOrTarget: models.Target, Name: "T", EventID: 7})

	lines := readLines(t, c.File)
	require.Len(t, lines, 1)

	fields := strings.Split(lines[0], "|")
	require.Len(t, fields, 7)
	assert.Equal(t, helpers.UnknownLabel, fields[4])
	assert.Equal(t, helpers.UnknownLabel, fields[5])
	assert.Len(t, sink.always, 2)
	assert.Equal(t, int64(1), p.GetMetric().Snapshot().LoggedByCategory[helpers.UnknownLabel])
}

func TestProcess_PublishesBusEvents(t *testing.T) {
	c := newTestConfig(t)
	c.Size = 0

	bus := EventBus.New()

	var logged []*models.Event
	var rotated []string

	require.NoError(t, bus.Subscribe(helpers.AlertLoggedBusEventName, func(event *models.Event) {
		logged = append(logged, event)
	}))
	require.NoError(t, bus.Subscribe(helpers.LogRotatedBusEventName, func(path string) {
		rotated = append(rotated, path)
	}))

	p := newTestProcessor(t, c, &recordingSink{}, bus)
	event := &models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, EventID: 3}
	p.Process(event)

	assert.Equal(t, []*models.Event{event}, logged)
	assert.Equal(t, []string{logfile.RotatedName(c.File, fixedTime)}, rotated)
}

func TestProcess_TracesReceivedEvent_WhenTraceIsEnabled(t *testing.T) {
	sink := &recordingSink{enabled: true}
	p := newTestProcessor(t, newTestConfig(t), sink, nil)

	p.Process(&models.Event{ZoneID: 1, CategoryID: 6, SourceOrTarget: models.Source, Name: "SUB", EventID: 9})

	require.NotEmpty(t, sink.writes)
	assert.Contains(t, sink.writes[0], `"eventId":9`)
	assert.Contains(t, sink.writes[0], `"name":"SUB"`)
}

func TestProcess_PanickingHookDoesNotFailWrittenAlert(t *testing.T) {
	c := newTestConfig(t)
	c.Size = 0

	bus := EventBus.New()

	var rotated []string

	require.NoError(t, bus.Subscribe(helpers.AlertLoggedBusEventName, func(*models.Event) {
		panic("hook")
	}))
	require.NoError(t, bus.Subscribe(helpers.LogRotatedBusEventName, func(path string) {
		rotated = append(rotated, path)
	}))

	sink := &recordingSink{}
	p := newTestProcessor(t, c, sink, bus)

	assert.NotPanics(t, func() {
		p.Process(&models.Event{ZoneID: 1, CategoryID: 1, SourceOrTarget: models.Source, Name: "N", EventID: 1})
	})

	rotatedPath := logfile.RotatedName(c.File, fixedTime)
	assert.Equal(t, []string{rotatedPath}, rotated)
	assert.Len(t, readLines(t, rotatedPath), 1)

	snapshot := p.GetMetric().Snapshot()
	assert.Equal(t, int64(1), snapshot.Logged)
	assert.Equal(t, int64(1), snapshot.Rotated)
	assert.Equal(t, int64(1), snapshot.HookFailed)
	assert.Zero(t, snapshot.Failed)

	require.Len(t, sink.always, 1)
	assert.Contains(t, sink.always[0], "hook panicked: hook")
	assert.NotContains(t, sink.always[0], "cannot write alert")
}
