package aigate

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds each vendor call. Vendors are black boxes and can
// hang; a timed-out call surfaces as a TimeoutError, distinct from an
// explicit vendor error.
const DefaultTimeout = 60 * time.Second

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	lookupEnv  EnvLookup
	recorder   UsageRecorder
}

func defaultSettings() settings {
	return settings{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		lookupEnv: os.LookupEnv,
	}
}

// Option configures a Resolver or a directly constructed Client.
type Option func(*settings)

// WithHTTPClient sets the HTTP client used for vendor calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithTimeout sets the per-call deadline for vendor requests.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnvLookup replaces the environment lookup used for the key fallback.
func WithEnvLookup(fn EnvLookup) Option {
	return func(s *settings) {
		if fn != nil {
			s.lookupEnv = fn
		}
	}
}

// WithUsageRecorder sets the recorder invoked after each successful call.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(s *settings) {
		s.recorder = r
	}
}
