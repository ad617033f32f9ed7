package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this module.
const TracerName = "github.com/aretw0/thicket"

// Tracer returns the module tracer from the global provider.
// It is a no-op until the host installs a TracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
