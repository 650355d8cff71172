package tracing

import (
	"context"
	"errors"

	"github.com/smallbiznis/estate/pkg/apperr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

var blockedAttributeKeys = map[attribute.Key]struct{}{
	"amount":                {},
	"transaction_reference": {},
	"resident_name":         {},
	"email":                 {},
}

// SafeAttributes drops attributes that would leak money or resident data into spans.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, blocked := blockedAttributeKeys[attr.Key]; blocked {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// SafeError reduces err to its stable code so driver messages stay out of spans.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(apperr.CodeOf(err))
}

// ExtractContext reads W3C trace headers into ctx.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
