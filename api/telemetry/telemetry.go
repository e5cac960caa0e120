// Package telemetry binds the telemetry endpoint of the global admin
// server.
package telemetry

import (
	"context"
	"net/http"

	"github.com/stuartf/oae-rest/rest"
)

// GetTelemetryData returns the raw counters, grouped by module.
func GetTelemetryData(ctx context.Context, rc *rest.Context) (map[string]any, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/telemetry", nil)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
