package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Session lifetime for admin and portal cookies
const SessionMaxAge = 24 * time.Hour

// Favicon enforcement: after a desired-URL change the icon is re-asserted
// this many times on this cadence, then the loop goes quiet.
const (
	FaviconReassertInterval = 10 * time.Second
	FaviconMaxReassertions  = 6
)

// Upload limits
const MaxUploadBytes = 8 << 20

// Sandbox demo credentials, used only when no password hashes are configured
// outside production.
const (
	DemoAdminPassword  = "admin"
	DemoClientPassword = "client"
)
