package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/estate/internal/audit/domain"
	"github.com/smallbiznis/estate/internal/audit/masking"
	obscontext "github.com/smallbiznis/estate/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
}

// Logger emits audit entries as structured log records on a dedicated
// logger so they can be routed to a separate sink.
type Logger struct {
	log *zap.Logger
}

func New(p Params) domain.Logger {
	return &Logger{log: p.Log.Named("audit")}
}

func (l *Logger) Record(ctx context.Context, entry domain.Entry) {
	if l == nil || l.log == nil {
		return
	}
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		l.log.Warn("audit entry without action dropped", zap.String("resource_type", entry.ResourceType))
		return
	}

	actorID := strings.TrimSpace(entry.ActorID)
	if actorID == "" {
		actorID = obscontext.ActorIDFromContext(ctx)
	}
	resourceType := strings.TrimSpace(entry.ResourceType)
	if resourceType == "" {
		resourceType = "unknown"
	}

	fields := []zap.Field{
		zap.String("action", action),
		zap.String("actor_id", actorID),
		zap.String("resource_type", resourceType),
		zap.String("resource_id", strings.TrimSpace(entry.ResourceID)),
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if metadata := masking.MaskMetadata(entry.Metadata); metadata != nil {
		fields = append(fields, zap.Any("metadata", metadata))
	}
	l.log.Info("audit", fields...)
}

var _ domain.Logger = (*Logger)(nil)
