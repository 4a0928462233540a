package helpers

const Name = "cdc_alert"

const (
	PropertiesFileEnv     = "ALERT_PROP_FILE"
	DefaultPropertiesFile = "alertfile.properties"

	AlertLoggedBusEventName = "alertLogged"
	LogRotatedBusEventName  = "logRotated"

	TimestampLayout      = "2006-01-02 15:04:05"
	RotationSuffixLayout = "2006-01-02_15:04:05"
	RotatedFileExtension = ".log"

	UnknownLabel        = "Unknown"
	WarningIDsSeparator = ","
)

const (
	PropertiesFormat = "properties"
	YamlFormat       = "yaml"
	JSONFormat       = "json"
)
