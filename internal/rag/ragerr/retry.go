package ragerr

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Retryable reports whether an upstream call is worth repeating.
// Rate limits and temporary unavailability from the gRPC-backed
// services count; everything else fails immediately.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
			return true
		}
	}
	return IsUpstream(err)
}

// Retry runs call up to attempts times with linear backoff, stopping
// early on success, context cancellation or a non-retryable error.
func Retry(ctx context.Context, attempts int, backoff time.Duration, call func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = call(); err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		wait := backoff * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
