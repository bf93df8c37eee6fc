package constants

import "time"

const (
	AppName            = "dailyhabits"
	DefaultKeyringUser = "database-connection"
	DefaultDBPath      = "~/.config/dailyhabits/habits.db"
	DefaultLogDir      = "~/.config/dailyhabits/logs"
	DefaultAddr        = ":8000"
	Version            = "v0.1.0"

	// KeyringDBSentinel selects the connection string stored in the OS keyring.
	KeyringDBSentinel = "keyring"

	// DateFormat is the calendar-day format used for streak days and CLI output (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is the fixed-width UTC layout completion and creation times are stored in.
	// Rows written by the SQL default (CURRENT_TIMESTAMP) use SQLTimestampFormat instead.
	TimestampFormat    = "2006-01-02 15:04:05.000000"
	SQLTimestampFormat = "2006-01-02 15:04:05"

	// HTTP server constants
	RequestTimeout    = 5 * time.Second
	ReadTimeout       = 5 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 120 * time.Second
	ShutdownTimeout   = 10 * time.Second
	DefaultRateLimit  = 5
	DefaultRateBurst  = 30
	VisitorIdleExpiry = 3 * time.Minute
	VisitorSweepEvery = time.Minute

	// Log rotation
	LogFileName      = "dailyhabits.log"
	LogMaxSizeMB     = 10
	LogMaxBackups    = 3
	LogMaxAgeDays    = 28
	RequestIDHeader  = "X-Request-ID"
	MetricsNamespace = "dailyhabits"
)
