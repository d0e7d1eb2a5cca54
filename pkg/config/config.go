package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules applied to the logger
	MigrationSourceURL string // location of migration files
	ProfilingPort      int    // port for profiling
	HTTPServerAddr     string // listen addr for the HTTP api server

	MinSpeedKmh      float64 // speed threshold (km/h) above which a vehicle counts as moving
	MinMovingSeconds int     // minimum block duration (s) to be counted at all
	MinStopSeconds   int     // idle/gap duration (s) that force-ends a moving block
	StopToleranceSec int     // brief sub-threshold dips up to this duration keep the block open

	FuelKeys          string  // comma separated candidate attribute keys for the fuel value
	FuelDropLiters    float64 // absolute fuel decrease that raises a drop event
	FuelDropPercent   float64 // relative fuel decrease (%) that raises a drop event
	FuelRefuelLiters  float64 // absolute fuel increase that raises a refuel event
	FuelRefuelPercent float64 // relative fuel increase (%) that raises a refuel event
	FuelWindowMinutes int     // accepted for compatibility, not used by detection

	MaxPlausibleSpeedKmh float64 // legs implying a higher speed are treated as GPS jumps

	DetailGapSeconds           int     // adjacent day segments closer than this are merged
	DetailMinSegmentSeconds    int     // trips shorter than this are dropped as noise
	DetailMinSegmentDistanceM  float64 // trips with less accumulated distance are dropped
	DetailMinStartEndDistanceM float64 // trips whose endpoints are closer are dropped
	DetailMergeStopSeconds     int     // max stop duration bridged by the cross-segment merge

	GeocodeURL           string // reverse geocoding endpoint
	GeocodeTimeout       string // timeout for a single reverse geocoding call
	GeocodeCacheTTL      string // lifetime of cached reverse geocoding results
	GeocodeMaxConcurrent int    // max concurrent reverse geocoding calls (0 = unlimited)
)
