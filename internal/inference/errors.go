package inference

import (
	"context"
	"errors"
	"strings"
)

// Kind categorizes a failed inference call
type Kind int

const (
	KindUnknown Kind = iota
	KindQuota
	KindNotFound
	KindForbidden
	KindTimeout
	KindServer
	KindNetwork
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindQuota:
		return "quota"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind is worth another attempt.
// Quota errors need a longer wait than a short retry window offers.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindServer, KindNetwork:
		return true
	case KindQuota, KindNotFound, KindForbidden, KindCanceled, KindUnknown:
		return false
	}
	return false
}

// Error is an inference failure with a known category
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "inference error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "inference error: " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// textRules is checked in order; the first rule with a matching substring wins
var textRules = []struct {
	kind    Kind
	needles []string
}{
	{KindQuota, []string{"quota", "resource_exhausted"}},
	{KindNotFound, []string{"404", "not found"}},
	{KindForbidden, []string{"403", "forbidden"}},
	{KindTimeout, []string{"timeout", "deadline"}},
	{KindServer, []string{"500", "502", "503"}},
	{KindNetwork, []string{"connection", "network"}},
}

// Classify returns the Kind of err. A typed *Error with a known kind wins;
// anything else is matched on its message text.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var typed *Error
	if errors.As(err, &typed) && typed.Kind != KindUnknown {
		return typed.Kind
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return ClassifyText(err.Error())
}

// ClassifyText categorizes a rendered error message
func ClassifyText(msg string) Kind {
	lower := strings.ToLower(msg)
	for _, rule := range textRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.kind
			}
		}
	}
	return KindUnknown
}

// ShouldRetry reports whether err is transient
func ShouldRetry(err error) bool {
	return Classify(err).Retryable()
}
