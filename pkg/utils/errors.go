package utils

import (
	"context"
	"errors"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrBrowserLaunch        = errors.New("failed to launch browser")
	ErrNavigation           = errors.New("page navigation failed")
	ErrExtraction           = errors.New("content extraction failed")
	ErrScreenshot           = errors.New("screenshot capture failed")
	ErrRobotsDisallowed     = errors.New("disallowed by robots.txt")
	ErrUnsupportedFramework = errors.New("unsupported framework")
	ErrModelInvocation      = errors.New("model invocation failed")
	ErrParsing              = errors.New("parsing error")  // Wraps URL/HTML/JSON parsing errors
	ErrDatabase             = errors.New("database error") // Wraps badger errors
	ErrProjectNotFound      = errors.New("project not found")
	ErrVersionNotFound      = errors.New("generated version not found")
	ErrUnsafePath           = errors.New("unsafe generated file path")
	ErrConfigValidation     = errors.New("configuration validation error")
)

// CategorizeError maps an error to a predefined category string for logging/metrics.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrBrowserLaunch):
		return "Browser_Launch"
	case errors.Is(err, ErrNavigation):
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
			return "Navigation_Timeout"
		}
		if strings.Contains(errMsg, "no such host") {
			return "Navigation_DNSLookup"
		}
		if strings.Contains(errMsg, "connection refused") {
			return "Navigation_ConnectionRefused"
		}
		return "Navigation_Other"
	case errors.Is(err, ErrExtraction):
		return "Extraction"
	case errors.Is(err, ErrScreenshot):
		return "Extraction_Screenshot"
	case errors.Is(err, ErrRobotsDisallowed):
		return "Policy_Robots"
	case errors.Is(err, ErrUnsupportedFramework):
		return "Generation_UnsupportedFramework"
	case errors.Is(err, ErrModelInvocation):
		if strings.Contains(strings.ToLower(err.Error()), "deadline exceeded") {
			return "Model_Timeout"
		}
		return "Model_Invocation"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "JSON") {
			return "Content_ParsingJSON"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrVersionNotFound):
		return "Database_NotFound"
	case errors.Is(err, ErrUnsafePath):
		return "Output_UnsafePath"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// --- Fallback checks for common underlying error types/strings ---

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "Network_Timeout"
		}
	}
	lowerErrMsg := strings.ToLower(err.Error())
	if strings.Contains(lowerErrMsg, "timeout") {
		return "Network_TimeoutGeneric"
	}
	if strings.Contains(lowerErrMsg, "connection refused") {
		return "Network_ConnectionRefused"
	}
	if strings.Contains(lowerErrMsg, "no such host") {
		return "Network_DNSLookup"
	}
	if strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate") {
		return "Network_TLS"
	}

	return "Unknown"
}
