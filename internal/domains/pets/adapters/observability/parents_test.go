package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	petmemory "github.com/Apurer/pethub-api/internal/domains/pets/adapters/memory"
	"github.com/Apurer/pethub-api/internal/domains/pets/application"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

func TestParentService_WritesAreTracedLoggedAndCounted(t *testing.T) {
	catalog := petmemory.NewCatalog()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	reader := sdkmetric.NewManualReader()
	meters := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer

	obs := New(application.NewService(catalog.Pets(), catalog.Breeds(), catalog.Parents()),
		WithTracer(provider.Tracer("test")),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithMeter(meters.Meter("test")),
	)
	parents := obs.WrapParents(application.NewLineage(catalog.Parents(), nil))
	ctx := context.Background()

	name, gender := "Duke", domain.GenderMale
	created, err := parents.CreateParent(ctx, pettypes.ParentMutationInput{Name: &name, Gender: &gender})
	require.NoError(t, err)
	require.NoError(t, parents.DeleteParent(ctx, created.Entity.ID))

	_, err = parents.GetParent(ctx, uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, "ParentService.CreateParent", spans[0].Name())
	require.Equal(t, "ParentService.DeleteParent", spans[1].Name())
	require.Equal(t, "ParentService.GetParent", spans[2].Name())
	require.Equal(t, codes.Unset, spans[2].Status().Code)
	require.Contains(t, logs.String(), "parent created")
	require.Contains(t, logs.String(), created.Entity.ID.String())
	require.Contains(t, logs.String(), `"level":"WARN"`)

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &data))
	var writes int64
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "pets.service.parent_writes" {
				continue
			}
			for _, point := range m.Data.(metricdata.Sum[int64]).DataPoints {
				writes += point.Value
			}
		}
	}
	require.Equal(t, int64(2), writes)
}
