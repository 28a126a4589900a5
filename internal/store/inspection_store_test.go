package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
)

func TestInspectionStoreCreateRoundTrip(t *testing.T) {
	d := openTestDB(t)
	store := NewInspectionStore(d)
	ctx := context.Background()

	area := 82.5
	year := 1998
	created, err := store.Create(ctx, &domain.Inspection{
		UserID:   "user-1",
		Protocol: "VST202501010042",
		PropertyData: domain.PropertyData{
			Address: "Av. Paulista, 1000", City: "São Paulo", State: "SP",
			TotalArea: &area, ConstructionYear: &year,
			Coordinates: &domain.Coordinates{Latitude: -23.56, Longitude: -46.65},
		},
		StructuralConditions: domain.StructuralConditions{Walls: "cracks near window"},
		Installations:        domain.Installations{Electrical: "ok"},
		InspectorData:        domain.InspectorData{Name: "Maria", Registration: "CREA-123"},
		Notes:                "first visit",
		Status:               domain.StatusDraft,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Av. Paulista, 1000", created.PropertyData.Address)
	require.NotNil(t, created.PropertyData.TotalArea)
	assert.InDelta(t, 82.5, *created.PropertyData.TotalArea, 0.001)
	assert.Equal(t, 1998, *created.PropertyData.ConstructionYear)
	assert.Equal(t, "cracks near window", created.StructuralConditions.Walls)
	assert.Equal(t, "CREA-123", created.InspectorData.Registration)
	assert.Nil(t, created.TemplateID)
	assert.Equal(t, domain.StatusDraft, created.Status)
}

func TestInspectionStoreOwnership(t *testing.T) {
	d := openTestDB(t)
	store := NewInspectionStore(d)
	ctx := context.Background()

	insp := seedInspection(t, d, "alice")

	got, err := store.GetOwned(ctx, insp.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, got)

	insp.UserID = "bob"
	_, err = store.Update(ctx, insp)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, insp.ID, "bob"), domain.ErrNotFound)
	assert.ErrorIs(t, store.SetStatus(ctx, insp.ID, "bob", domain.StatusCompleted), domain.ErrNotFound)

	got, err = store.GetOwned(ctx, insp.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusDraft, got.Status)
}

func TestInspectionStoreListAndCount(t *testing.T) {
	d := openTestDB(t)
	store := NewInspectionStore(d)
	ctx := context.Background()

	a := seedInspection(t, d, "alice")
	seedInspection(t, d, "alice")
	seedInspection(t, d, "bob")

	require.NoError(t, store.SetStatus(ctx, a.ID, "alice", domain.StatusInProgress))

	list, err := store.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	counts, err := store.CountByStatus(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.StatusDraft])
	assert.Equal(t, 1, counts[domain.StatusInProgress])
	assert.Equal(t, 0, counts[domain.StatusCompleted])
}

func TestInspectionStoreTemplateReference(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	tpl, err := NewTemplateStore(d).Create(ctx, &domain.Template{UserID: "alice", Name: "Apartment"})
	require.NoError(t, err)

	insp := seedInspection(t, d, "alice")
	insp.TemplateID = &tpl.ID

	updated, err := NewInspectionStore(d).Update(ctx, insp)
	require.NoError(t, err)
	require.NotNil(t, updated.TemplateID)
	assert.Equal(t, tpl.ID, *updated.TemplateID)
}
