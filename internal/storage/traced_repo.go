package storage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/save"
)

// TracedRepository оборачивает SaveRepository спанами OpenTelemetry и
// логирует ошибки. Без настроенного провайдера спаны ничего не стоят.
type TracedRepository struct {
	inner   SaveRepository
	backend string
	tracer  trace.Tracer
	logger  *logging.Logger
}

// NewTracedRepository создает обёртку
func NewTracedRepository(inner SaveRepository, backend string) *TracedRepository {
	return &TracedRepository{
		inner:   inner,
		backend: backend,
		tracer:  otel.Tracer("arpg-engine/storage"),
		logger:  logging.GetStorageLogger(),
	}
}

func (t *TracedRepository) start(ctx context.Context, op, slot string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("storage.backend", t.backend)}
	if slot != "" {
		attrs = append(attrs, attribute.String("save.slot", slot))
	}
	return t.tracer.Start(ctx, "storage."+op, trace.WithAttributes(attrs...))
}

func (t *TracedRepository) finish(span trace.Span, op, slot string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Error("❌ %s %s [%s]: %v", op, slot, t.backend, err)
	}
	span.End()
}

func (t *TracedRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
	ctx, span := t.start(ctx, "Save", slot)
	err := t.inner.Save(ctx, slot, d)
	t.finish(span, "Save", slot, err)
	if err == nil {
		t.logger.Debug("💾 Слот %s сохранён (уровень %d)", slot, d.Level)
	}
	return err
}

func (t *TracedRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	ctx, span := t.start(ctx, "Load", slot)
	d, found, err := t.inner.Load(ctx, slot)
	span.SetAttributes(attribute.Bool("save.found", found))
	t.finish(span, "Load", slot, err)
	return d, found, err
}

func (t *TracedRepository) Delete(ctx context.Context, slot string) error {
	ctx, span := t.start(ctx, "Delete", slot)
	err := t.inner.Delete(ctx, slot)
	t.finish(span, "Delete", slot, err)
	return err
}

func (t *TracedRepository) List(ctx context.Context) ([]SlotInfo, error) {
	ctx, span := t.start(ctx, "List", "")
	infos, err := t.inner.List(ctx)
	span.SetAttributes(attribute.Int("save.slots", len(infos)))
	t.finish(span, "List", "", err)
	return infos, err
}

func (t *TracedRepository) Close() error {
	return t.inner.Close()
}
