// Package exitcode provides standardized exit codes for rsaforge
package exitcode

// Exit codes for the rsaforge CLI
const (
	Success           = 0
	GeneralError      = 1
	ConfigError       = 2
	ValidationError   = 3
	FileSystemError   = 4
	NetworkError      = 5
	UnsupportedFormat = 8
	GateFailed        = 10
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	case UnsupportedFormat:
		return "Unsupported format"
	case GateFailed:
		return "Quality gate failed"
	default:
		return "Unknown error"
	}
}
