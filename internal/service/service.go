// Package service holds the application operations behind the HTTP
// handlers. Every exported method returns *apperr.Error on failure.
package service

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRecorder receives domain events for metrics. A nil recorder is
// replaced with a no-op.
type EventRecorder interface {
	AuthEvent(event string)
	OrderPlaced(amount float64)
}

type nopRecorder struct{}

func (nopRecorder) AuthEvent(string)    {}
func (nopRecorder) OrderPlaced(float64) {}

func recorderOrNop(r EventRecorder) EventRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func loggerOrDefault(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("component", component))
}

// parseID converts a client-supplied hex id. ok is false for anything that
// is not a valid ObjectID.
func parseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
