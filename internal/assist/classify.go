package assist

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

// classify maps a transport or service error onto the closed taxonomy.
// Typed errors are checked first; message heuristics cover SDK wrappers
// that lose the original type. Anything unmatched is Unknown.
func classify(err error) ErrorKind {
	if err == nil {
		return Unknown
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 400 || apiErr.Code == 401 || apiErr.Code == 403:
			return InvalidCredential
		case apiErr.Code == 429:
			return QuotaExceeded
		case apiErr.Code >= 500:
			return ServerFailure
		}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return ContentFiltered
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkFailure
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NetworkFailure
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NetworkFailure
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return InvalidCredential
	case strings.Contains(msg, "quota"), strings.Contains(msg, "resource exhausted"), strings.Contains(msg, "429"):
		return QuotaExceeded
	case strings.Contains(msg, "fetch failed"), strings.Contains(msg, "network"), strings.Contains(msg, "connection"):
		return NetworkFailure
	case strings.Contains(msg, "safety"), strings.Contains(msg, "blocked"):
		return ContentFiltered
	}

	return Unknown
}
