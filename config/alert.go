package config

import "math"

const (
	DefaultFile            = "iidr_alert_file.log"
	DefaultSize            = int64(10000)
	DefaultSeparator       = "|"
	DefaultMinimumCategory = 5
	DefaultLoggingLevel    = "info"
	DefaultAPIPort         = 8080
	DefaultMetricPath      = "/metrics"
)

type Logging struct {
	Level string `yaml:"level" json:"level"`
}

type API struct {
	Port    int  `yaml:"port" json:"port"`
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type Metric struct {
	Path string `yaml:"path" json:"path"`
}

type Alert struct {
	File            string  `yaml:"file" json:"file"`
	Separator       string  `yaml:"separator" json:"separator"`
	Logging         Logging `yaml:"logging" json:"logging"`
	Metric          Metric  `yaml:"metric" json:"metric"`
	WarningIDs      []int   `yaml:"warningIds" json:"warningIds"`
	API             API     `yaml:"api" json:"api"`
	Size            int64   `yaml:"size" json:"size"`
	MinimumCategory int     `yaml:"minimumCategory" json:"minimumCategory"`
	Trace           bool    `yaml:"trace" json:"trace"`

	escalated map[int]struct{}
}

// Default returns the configuration used when no source can be loaded.
func Default() *Alert {
	c := &Alert{
		Size:            DefaultSize,
		MinimumCategory: DefaultMinimumCategory,
	}
	c.ApplyDefaults()

	return c
}

// MaxSizeBytes is the rotation threshold; a file strictly larger than this is rotated.
// Sizes beyond the int64 byte range are clamped instead of wrapping negative.
func (c *Alert) MaxSizeBytes() int64 {
	if c.Size > math.MaxInt64/1024 {
		return math.MaxInt64
	}

	return c.Size * 1024
}

func (c *Alert) IsEscalated(eventID int) bool {
	if c.escalated == nil {
		for _, id := range c.WarningIDs {
			if id == eventID {
				return true
			}
		}
		return false
	}

	_, ok := c.escalated[eventID]
	return ok
}

func (c *Alert) ApplyDefaults() {
	c.applyDefaultFile()
	c.applyDefaultSeparator()
	c.applyDefaultLogging()
	c.applyDefaultAPI()
	c.applyDefaultMetric()
	c.buildEscalated()
}

func (c *Alert) applyDefaultFile() {
	if c.File == "" {
		c.File = DefaultFile
	}
}

func (c *Alert) applyDefaultSeparator() {
	if c.Separator == "" {
		c.Separator = DefaultSeparator
	}
}

func (c *Alert) applyDefaultLogging() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLoggingLevel
	}
}

func (c *Alert) applyDefaultAPI() {
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}
}

func (c *Alert) applyDefaultMetric() {
	if c.Metric.Path == "" {
		c.Metric.Path = DefaultMetricPath
	}
}

func (c *Alert) buildEscalated() {
	c.escalated = make(map[int]struct{}, len(c.WarningIDs))
	for _, id := range c.WarningIDs {
		c.escalated[id] = struct{}{}
	}
}
