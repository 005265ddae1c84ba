package inference

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		msg   string
		kind  Kind
		retry bool
	}{
		{"429 Quota exceeded for project", KindQuota, false},
		{"RESOURCE_EXHAUSTED: try later", KindQuota, false},
		{"Error 404, Message: not here", KindNotFound, false},
		{"requested entity Not Found", KindNotFound, false},
		{"403 caller lacks permission", KindForbidden, false},
		{"Forbidden", KindForbidden, false},
		{"request Timeout", KindTimeout, true},
		{"context deadline exceeded", KindTimeout, true},
		{"500 internal", KindServer, true},
		{"502 bad gateway", KindServer, true},
		{"503 unavailable", KindServer, true},
		{"Connection reset by peer", KindNetwork, true},
		{"network is unreachable", KindNetwork, true},
		{"something odd happened", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := errors.New(tt.msg)
			assert.Equal(t, tt.kind, Classify(err))
			assert.Equal(t, tt.retry, ShouldRetry(err))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	assert.Equal(t, KindNotFound, ClassifyText("404 after timeout"))
	assert.False(t, ShouldRetry(errors.New("timeout while fetching: 404")))

	assert.Equal(t, KindQuota, ClassifyText("403 quota exceeded"))
	assert.Equal(t, KindForbidden, ClassifyText("503 forbidden"))
	assert.Equal(t, KindTimeout, ClassifyText("500 timeout"))
	assert.Equal(t, KindServer, ClassifyText("502 connection closed"))
}

func TestClassifyTypedError(t *testing.T) {
	typed := &Error{Kind: KindServer, StatusCode: 503, Message: "backend unavailable"}
	wrapped := fmt.Errorf("generate: %w", typed)

	assert.Equal(t, KindServer, Classify(wrapped))
	assert.True(t, ShouldRetry(wrapped))

	// Unknown typed errors fall back to their text.
	opaque := &Error{Message: "upstream connection dropped"}
	assert.Equal(t, KindNetwork, Classify(opaque))
}

func TestClassifyCanceled(t *testing.T) {
	err := fmt.Errorf("wait: %w", context.Canceled)
	assert.Equal(t, KindCanceled, Classify(err))
	assert.False(t, ShouldRetry(err))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	e := &Error{Kind: KindTimeout, Err: cause}

	assert.Equal(t, cause.Error(), e.Error())
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "inference error: quota", (&Error{Kind: KindQuota}).Error())
}

func TestRateLimitedPassThrough(t *testing.T) {
	calls := 0
	next := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		return req.Model, nil
	})

	_, isLimited := NewRateLimited(next, 0, 0).(*RateLimited)
	assert.False(t, isLimited)

	limited := NewRateLimited(next, 1000, 2)
	for i := 0; i < 3; i++ {
		out, err := limited.Generate(context.Background(), Request{Model: "m"})
		assert.NoError(t, err)
		assert.Equal(t, "m", out)
	}
	assert.Equal(t, 3, calls)
}

func TestRateLimitedCanceled(t *testing.T) {
	next := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		return "", nil
	})
	limited := NewRateLimited(next, 0.001, 1)

	_, err := limited.Generate(context.Background(), Request{})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limited.Generate(ctx, Request{})
	assert.Error(t, err)
}

func TestTracedPropagatesResult(t *testing.T) {
	boom := &Error{Kind: KindForbidden, Message: "403 Forbidden"}
	traced := NewTraced(GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		if req.Model == "bad" {
			return "", boom
		}
		return "ok", nil
	}))

	out, err := traced.Generate(context.Background(), Request{Model: "good", Parts: []Part{{FileURI: "https://youtu.be/x"}}})
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = traced.Generate(context.Background(), Request{Model: "bad"})
	assert.ErrorIs(t, err, boom)
}
