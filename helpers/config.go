package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Trendyol/go-cdc-alert/config"
	"github.com/Trendyol/go-cdc-alert/logger"

	gookit "github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yamlv3"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

const (
	fileKey            = "file"
	sizeKey            = "size"
	separatorKey       = "separator"
	warningIDsKey      = "warning_ids"
	minimumCategoryKey = "minimum_category"
	traceKey           = "trace"
	loggingLevelKey    = "logging.level"
	apiEnabledKey      = "api.enabled"
	apiPortKey         = "api.port"
	metricPathKey      = "metric.path"
)

func Options(opts *gookit.Options) {
	opts.ParseEnv = true
	opts.Readonly = true
}

// PropertiesFilePath resolves the configuration source from ALERT_PROP_FILE,
// falling back to alertfile.properties in the working directory.
func PropertiesFilePath() string {
	if path, ok := os.LookupEnv(PropertiesFileEnv); ok && path != "" {
		return path
	}

	logger.Log.Info(
		"%s env variable couldn't be found, defaulting properties file to %s",
		PropertiesFileEnv, DefaultPropertiesFile,
	)

	return DefaultPropertiesFile
}

func LoadConfig() *config.Alert {
	return NewConfig(Name, PropertiesFilePath())
}

// NewConfig never fails: an unreadable source yields config.Default().
func NewConfig(name string, filePath string) *config.Alert {
	conf, err := readSource(name, filePath)
	if err != nil {
		logger.Log.Debug("cannot load config file %s, using defaults: %v", filePath, err)
		return config.Default()
	}

	_config := decode(conf)
	_config.ApplyDefaults()

	logConfig(filePath, _config)

	return _config
}

func readSource(name string, filePath string) (*gookit.Config, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	conf := gookit.New(name).WithOptions(Options).WithDriver(yamlv3.Driver)

	format := sourceFormat(filePath)
	if format == PropertiesFormat {
		err = loadProperties(conf, src)
	} else {
		err = conf.LoadSources(format, src)
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	return conf, nil
}

// loadProperties reads java.util.Properties syntax: '=', ':' or whitespace
// separators, backslash escapes and line continuations.
func loadProperties(conf *gookit.Config, src []byte) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

	props, err := loader.LoadBytes(src)
	if err != nil {
		return err
	}

	return conf.LoadData(props.Map())
}

func sourceFormat(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yml", ".yaml":
		return YamlFormat
	case ".json":
		return JSONFormat
	default:
		return PropertiesFormat
	}
}

func decode(conf *gookit.Config) *config.Alert {
	_config := &config.Alert{
		File:            stringValue(conf, fileKey, config.DefaultFile),
		Separator:       stringValue(conf, separatorKey, config.DefaultSeparator),
		Size:            int64Value(conf, sizeKey, config.DefaultSize),
		MinimumCategory: intValue(conf, minimumCategoryKey, config.DefaultMinimumCategory),
		WarningIDs:      ParseEventIDs(stringValue(conf, warningIDsKey, "")),
		Trace:           boolValue(conf, traceKey, false),
		Logging: config.Logging{
			Level: stringValue(conf, loggingLevelKey, config.DefaultLoggingLevel),
		},
		API: config.API{
			Enabled: boolValue(conf, apiEnabledKey, false),
			Port:    intValue(conf, apiPortKey, config.DefaultAPIPort),
		},
		Metric: config.Metric{
			Path: stringValue(conf, metricPathKey, config.DefaultMetricPath),
		},
	}

	return _config
}

// ParseEventIDs splits a comma separated list; entries that are not integers are skipped.
func ParseEventIDs(value string) []int {
	var ids []int

	if strings.TrimSpace(value) == "" {
		return ids
	}

	for _, part := range strings.Split(value, WarningIDsSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil {
			logger.Log.Error("skipping invalid %s entry %q: %v", warningIDsKey, part, err)
			continue
		}

		ids = append(ids, id)
	}

	return ids
}

func lookup(conf *gookit.Config, key string) (string, bool) {
	value := conf.Get(key)
	if value == nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, WarningIDsSeparator), true
	default:
		return fmt.Sprint(v), true
	}
}

func stringValue(conf *gookit.Config, key string, defaultValue string) string {
	if value, ok := lookup(conf, key); ok {
		return value
	}

	return defaultValue
}

func int64Value(conf *gookit.Config, key string, defaultValue int64) int64 {
	value, ok := lookup(conf, key)
	if !ok {
		return defaultValue
	}

	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		logger.Log.Error("invalid %s value %q, using %d: %v", key, value, defaultValue, err)
		return defaultValue
	}

	return parsed
}

func intValue(conf *gookit.Config, key string, defaultValue int) int {
	return int(int64Value(conf, key, int64(defaultValue)))
}

func boolValue(conf *gookit.Config, key string, defaultValue bool) bool {
	value, ok := lookup(conf, key)
	if !ok {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		logger.Log.Error("invalid %s value %q, using %t: %v", key, value, defaultValue, err)
		return defaultValue
	}

	return parsed
}

func logConfig(filePath string, _config *config.Alert) {
	out, err := yaml.Marshal(_config)
	if err != nil {
		logger.Log.Debug("config loaded from file: %v", filePath)
		return
	}

	logger.Log.Debug("config loaded from file: %v\n%s", filePath, out)
}
