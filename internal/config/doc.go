// Package config loads and validates the report service configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file: COVID_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. envconfig struct defaults (lowest priority)
//
// A .env file in the working directory is read first when present.
//
// # Environment Variables
//
// Variables use the COVID_ prefix followed by the section and field:
//
//	COVID_SERVER_PORT=8080
//	COVID_DATASET_SOURCE=azblob
//	COVID_DATASET_CONTAINER=sample-workitems
//	COVID_DATASET_BLOB=data.csv
//	COVID_LOGGING_LEVEL=debug
//	COVID_WATCH_PROBE_SCHEDULE=@every 1m
//
// The blob source falls back to the AzureWebJobsStorage connection string
// when COVID_DATASET_CONNECTION_STRING is unset.
//
// # Validation
//
// Load rejects:
//
//	- ports outside 1..65535 and non-positive server timeouts
//	- an unknown logging output
//	- a dataset source missing its path, url or blob settings
//	- a probe schedule robfig/cron cannot parse
//
// Tests that need no environment should start from Default().
package config
