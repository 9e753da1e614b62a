package checks

import "time"

type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// CheckSpec is one parsed check entry from a CHECKS file.
type CheckSpec struct {
	Protocol Protocol
	// Hostname is a virtual-host marker, never a connection target. It is
	// only sent as a Host header when HostHeader is set (the //host/path
	// URL form); the default "localhost" is not sent.
	Hostname   string
	HostHeader bool
	Pathname   string
	// Expected is matched against the response body by regex containment;
	// empty means any successful response passes.
	Expected string
}

// Settings controls the attempt loop. Values may come from the environment
// and be overridden by WAIT/TIMEOUT/ATTEMPTS lines in the CHECKS file.
type Settings struct {
	Wait     time.Duration // pause before each attempt
	Timeout  time.Duration // budget per HTTP request
	Attempts int           // full passes over all checks
}

func DefaultSettings() Settings {
	return Settings{
		Wait:     5 * time.Second,
		Timeout:  30 * time.Second,
		Attempts: 5,
	}
}
