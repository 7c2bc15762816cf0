package config

// this holds the resolved configuration values from CLI
var (
	LogLevel  string // sets the log level (zap log level values)
	LogFormat string // text vs json
	LogConfig string // path to log config file

	MaxMatchedRows int    // cap on accumulated matched rows per ingestion
	SkipRows       int    // leading data rows to skip
	ChunkSize      int    // rows per decoded chunk
	CacheSize      int    // max entries of the LRU telemetry cache
	VehicleFilter  string // restrict ingestion to this vehicle id
	LapFilter      int    // restrict ingestion to this lap (-1: all laps)
)
