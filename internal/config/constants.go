package config

import "time"

// Application constants
const (
	AppName    = "ECDC Covid-19 Report Service"
	AppVersion = "1.0.0"

	// Environment variable prefix used by envconfig
	EnvPrefix = "COVID"

	// AzureWebJobsStorageEnv is the connection setting name used by the
	// Functions blob binding. It is honoured as a fallback for the blob source.
	AzureWebJobsStorageEnv = "AzureWebJobsStorage"
)

// Dataset source kinds
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceAzBlob = "azblob"
)

// Dataset defaults mirroring the blob input binding (sample-workitems/data.csv)
const (
	DefaultContainer   = "sample-workitems"
	DefaultBlobName    = "data.csv"
	DefaultDatasetPath = "data/data.csv"
	DefaultSourceWait  = 30 * time.Second
)

// Report metadata placeholders
const (
	DefaultSourceSystem    = "ECDC(European Centre for Disease Prevention and Control)"
	DefaultRefreshDate     = "To be added"
	DefaultUpdateFrequency = "Weekly Twice"
	DefaultSourceContact   = "To be added"
	DefaultHouseKeeping    = "More house keeping columns can also be added"
)

// Logging output modes
const (
	LogOutputConsole = "console"
	LogOutputFile    = "file"
	LogOutputBoth    = "both"
)
