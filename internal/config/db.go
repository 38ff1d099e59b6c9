package config

import "time"

// DB holds the database configuration settings.
type DB struct {
	Engine   string `validate:"required,oneof=mysql postgres sqlite"`
	Extras   string
	Host     string `validate:"required_unless=Engine sqlite"`
	Port     int
	User     string
	Password string
	Name     string `validate:"required_unless=Engine sqlite"`
	// Path is the sqlite database file; ":memory:" keeps it in memory.
	Path string `validate:"required_if=Engine sqlite"`

	MaxOpenConns       int `validate:"gte=0"`
	MaxIdleConns       int `validate:"gte=0"`
	SlowQueryThreshold time.Duration
}
