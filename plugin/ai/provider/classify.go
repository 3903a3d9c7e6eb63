package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/hrygo/mailmind/internal/aierr"
)

var (
	networkPatterns = []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"network is unreachable",
		"no such host",
		"temporary failure",
		"dial tcp",
		"eof",
		"connection lost",
	}
	timeoutPatterns = []string{
		"timeout",
		"deadline exceeded",
		"i/o timeout",
		"operation timed out",
	}
	creditPatterns = []string{"402", "credit", "payment"}
	authPatterns   = []string{"401", "unauthorized", "invalid api key", "invalid_api_key", "authentication"}
	ratePatterns   = []string{"429", "rate limit", "too many requests"}
)

// Classify maps any error from a vendor call onto a provider error reason.
// Errors that already belong to the taxonomy are returned unchanged.
func Classify(err error) *aierr.Error {
	if err == nil {
		return nil
	}

	var coreErr *aierr.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return aierr.Provider(aierr.ReasonTransportFailure, 0, "request did not complete", err)
	}

	if status := StatusOf(err); status != 0 {
		return aierr.Provider(reasonForStatus(status, err), status, "provider returned status "+strconv.Itoa(status), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return aierr.Provider(aierr.ReasonTransportFailure, 0, "network error", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, creditPatterns):
		return aierr.Provider(aierr.ReasonQuotaExhausted, 0, "provider reported exhausted credits", err)
	case containsAny(msg, authPatterns):
		return aierr.Provider(aierr.ReasonUnauthenticated, 0, "provider rejected credentials", err)
	case containsAny(msg, ratePatterns):
		return aierr.Provider(aierr.ReasonRateLimited, 0, "provider rate limited the request", err)
	case containsAny(msg, networkPatterns), containsAny(msg, timeoutPatterns):
		return aierr.Provider(aierr.ReasonTransportFailure, 0, "network error", err)
	default:
		return aierr.Provider(aierr.ReasonUnknown, 0, "provider call failed", err)
	}
}

func reasonForStatus(status int, err error) aierr.Reason {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return aierr.ReasonUnauthenticated
	case status == http.StatusPaymentRequired:
		return aierr.ReasonQuotaExhausted
	case status == http.StatusTooManyRequests:
		if containsAny(strings.ToLower(err.Error()), []string{"quota", "credit"}) {
			return aierr.ReasonQuotaExhausted
		}
		return aierr.ReasonRateLimited
	case status == http.StatusRequestTimeout || status >= 500:
		return aierr.ReasonTransportFailure
	default:
		return aierr.ReasonUnknown
	}
}

// StatusOf extracts the HTTP status from a vendor SDK error, or 0.
func StatusOf(err error) int {
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return oaiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return antErr.StatusCode
	}
	var gErr *genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var coreErr *aierr.Error
	if errors.As(err, &coreErr) {
		return coreErr.Status
	}
	return 0
}

// IsCreditExhausted reports whether err says the account ran out of credits:
// an HTTP 402, or a message mentioning credits or payment.
func IsCreditExhausted(err error) bool {
	if err == nil {
		return false
	}
	if StatusOf(err) == http.StatusPaymentRequired {
		return true
	}
	return containsAny(strings.ToLower(err.Error()), creditPatterns)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
