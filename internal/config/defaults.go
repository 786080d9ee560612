package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "market_db",
}

var defaultRedis = Redis{
	Addr: "127.0.0.1:6379",
}

var defaultPush = Push{
	Endpoint:    "https://fcm.googleapis.com/fcm/send",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultMedia = Media{
	Endpoint: "https://api.cloudinary.com/v1_1/market/image/destroy",
}

var defaultDispatch = Dispatch{
	OperationTimeout: 3 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       50,
	Burst:      100,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultPprof = Pprof{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRedis returns the default counter store settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultPush returns the default push gateway settings.
func DefaultPush() Push {
	return defaultPush
}

// DefaultMedia returns the default media host settings.
func DefaultMedia() Media {
	return defaultMedia
}

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultRateLimit returns the default rate limiting settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultPprof returns the default diagnostics settings.
func DefaultPprof() Pprof {
	return defaultPprof
}
