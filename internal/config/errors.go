package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidPermission is returned if permissions.extra contains a malformed token.
	ErrInvalidPermission = errors.New("config permissions.extra contains an invalid permission")
	// ErrRedisAddrEmpty is returned if the redis cache is enabled without an address.
	ErrRedisAddrEmpty = errors.New("config cache.redis.addr can not be empty for the redis backend")
)
