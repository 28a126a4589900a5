package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/logging"
)

// stubRenderer records what it was asked to render.
type stubRenderer struct {
	pdf   []byte
	err   error
	calls int
	got   *domain.InspectionRecord
}

func (s *stubRenderer) Render(_ context.Context, record *domain.InspectionRecord) ([]byte, error) {
	s.calls++
	s.got = record
	return s.pdf, s.err
}

type stubDrafter struct {
	text string
	err  error
}

func (s *stubDrafter) Draft(context.Context, *domain.InspectionRecord) (string, error) {
	return s.text, s.err
}

func TestReportGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	insp := f.createInspection(t, "owner")
	_, err := f.rooms.Create(ctx, "owner", roomInput(insp.ID, "Sala"))
	require.NoError(t, err)

	renderer := &stubRenderer{pdf: []byte("%PDF")}
	svc := NewReportService(f.inspections, renderer, logging.Discard())

	pdf, record, err := svc.Generate(ctx, "owner", insp.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Equal(t, insp.ID, record.ID)
	assert.Len(t, renderer.got.Rooms, 1)
}

func TestReportGenerateFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	insp := f.createInspection(t, "owner")
	_, err := f.rooms.Create(ctx, "owner", roomInput(insp.ID, "Sala"))
	require.NoError(t, err)
	_, err = f.keysMeters.AddMeter(ctx, "owner", insp.ID, meterInput("W-1"))
	require.NoError(t, err)

	renderer := &stubRenderer{err: errors.New("connection refused")}
	svc := NewReportService(f.inspections, renderer, logging.Discard())

	_, _, err = svc.Generate(ctx, "owner", insp.ID)
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.NotNil(t, upstream.Record)
	assert.Equal(t, insp.ID, upstream.Record.ID)
	assert.Len(t, upstream.Record.Rooms, 1)
	assert.Len(t, upstream.Record.Meters, 1)
	assert.Equal(t, 1, renderer.calls)
}

func TestReportGenerateForeign(t *testing.T) {
	f := newFixture(t)
	insp := f.createInspection(t, "owner")
	renderer := &stubRenderer{pdf: []byte("%PDF")}
	svc := NewReportService(f.inspections, renderer, logging.Discard())

	_, _, err := svc.Generate(context.Background(), "intruder", insp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, renderer.calls)
}

func TestOpinionDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	insp := f.createInspection(t, "owner")

	svc := NewOpinionService(f.inspections, &stubDrafter{text: "Imóvel em bom estado."}, logging.Discard())
	text, err := svc.Draft(ctx, "owner", insp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imóvel em bom estado.", text)

	_, err = svc.Draft(ctx, "intruder", insp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	failing := NewOpinionService(f.inspections, &stubDrafter{err: errors.New("overloaded")}, logging.Discard())
	_, err = failing.Draft(ctx, "owner", insp.ID)
	var upstream *domain.UpstreamError
	assert.ErrorAs(t, err, &upstream)

	unconfigured := NewOpinionService(f.inspections, nil, logging.Discard())
	_, err = unconfigured.Draft(ctx, "owner", insp.ID)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
