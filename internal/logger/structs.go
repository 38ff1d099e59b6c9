package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool
	// UseConsoleWriter switches from JSON lines to zerolog's human readable output.
	UseConsoleWriter bool
}

// Rotation configures one rolling log file.
type Rotation struct {
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger with one rolling file per level group.
type LogFile struct {
	Enabled bool
	Path    string

	Access Rotation
	Error  Rotation
	Info   Rotation
	Trace  Rotation
	Warn   Rotation
}

// Log implements the logger config.
type Log struct {
	LogLevel string `validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	LogEnv   string

	// EnableAccessLogToConsole writes the HTTP access log to stdout as well.
	// Has no effect while Console.Enabled is false.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string `validate:"required"`
	ServiceName string `validate:"required"`

	Console Console
	File    LogFile
}
