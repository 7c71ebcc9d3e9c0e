package postgres

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/odonto-api/pkg/logger"
)

func newTestTracer(threshold time.Duration) (*queryTracer, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "debug", Out: &buf})
	return &queryTracer{log: log, threshold: threshold}, &buf
}

func TestQueryTracer_RegistraConsultaLenta(t *testing.T) {
	tr, buf := newTestTracer(0)
	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Contains(t, buf.String(), "consulta lenta")
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestQueryTracer_IgnoraConsultaRapidaYSinFilas(t *testing.T) {
	tr, buf := newTestTracer(time.Hour)
	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})

	assert.Empty(t, buf.String())
}

func TestQueryTracer_RegistraError(t *testing.T) {
	tr, buf := newTestTracer(time.Hour)
	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "INSERT INTO x"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	assert.Contains(t, buf.String(), "consulta con error")
}

func TestQueryTracer_SinInicioNoRegistra(t *testing.T) {
	tr, buf := newTestTracer(0)
	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Empty(t, buf.String())
}
