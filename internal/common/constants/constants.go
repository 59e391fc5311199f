package constants

import "time"

type ContextKey string

const TraceIDKey ContextKey = "trace_id"

const (
	JWTSecretMinLength = 32
	BcryptCost         = 12
	PasswordMaxLength  = 72

	DefaultMaxRequestSize = 1 << 20

	ServerReadHeaderTimeout = 5 * time.Second
	ServerReadTimeout       = 15 * time.Second
	ServerWriteTimeout      = 15 * time.Second
	ServerIdleTimeout       = 60 * time.Second

	RateLimitCleanupInterval = 10 * time.Minute

	RateLimitLoginRequestsPerSecond   = 1.0
	RateLimitLoginBurst               = 5
	RateLimitRefreshRequestsPerSecond = 2.0
	RateLimitRefreshBurst             = 10
	RateLimitLogoutRequestsPerSecond  = 2.0
	RateLimitLogoutBurst              = 10
	RateLimitGeneralRequestsPerSecond = 20.0
	RateLimitGeneralBurst             = 40

	RefreshTokenCleanupInterval = time.Hour
)
