package server

import "context"

// HealthChecker reports whether a backing service can take requests.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// OkHealthChecker always reports healthy. It backs the in-memory storage.
type OkHealthChecker struct{}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (*OkHealthChecker) Healthy(context.Context) bool {
	return true
}
