package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/logging"
	"github.com/geohome/geohome/internal/store"
)

// fixture wires every service over a private in-memory database.
type fixture struct {
	db            *db.DB
	inspections   *InspectionService
	rooms         *AreaService
	externalAreas *AreaService
	keysMeters    *KeysMetersService
	templates     *TemplateService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := logging.Discard()
	inspStore := store.NewInspectionStore(d)
	roomStore := store.NewAreaStore(d, store.RoomsTable)
	extStore := store.NewAreaStore(d, store.ExternalAreasTable)
	keyStore := store.NewKeyStore(d)
	meterStore := store.NewMeterStore(d)
	checklistStore := store.NewChecklistStore(d)
	templateStore := store.NewTemplateStore(d)

	return &fixture{
		db: d,
		inspections: NewInspectionService(inspStore, roomStore, extStore, keyStore, meterStore,
			checklistStore, templateStore, logger),
		rooms:         NewAreaService(inspStore, roomStore, "room", logger),
		externalAreas: NewAreaService(inspStore, extStore, "external area", logger),
		keysMeters:    NewKeysMetersService(inspStore, keyStore, meterStore, checklistStore, logger),
		templates:     NewTemplateService(templateStore, logger),
	}
}

func inspectionInput(address string) *domain.InspectionInput {
	return &domain.InspectionInput{
		PropertyData:         &domain.PropertyData{Address: address, City: "Recife", State: "PE"},
		StructuralConditions: &domain.StructuralConditions{Walls: "ok"},
		Installations:        &domain.Installations{Electrical: "ok"},
		InspectorData:        &domain.InspectorData{Name: "Maria"},
	}
}

func (f *fixture) createInspection(t *testing.T, userID string) *domain.Inspection {
	t.Helper()
	insp, err := f.inspections.Create(context.Background(), userID, inspectionInput("Rua das Flores, 10"))
	require.NoError(t, err)
	return insp
}

func roomInput(inspectionID, name string) *domain.AreaInput {
	return &domain.AreaInput{
		InspectionID: inspectionID,
		Name:         name,
		Type:         "bedroom",
		Condition:    domain.ConditionGood,
		Items:        &[]domain.AreaItem{{Name: "Window", Condition: domain.ConditionRegular}},
	}
}

func keyInput(room string) *domain.KeyInput {
	count, yes := 2, true
	return &domain.KeyInput{
		RoomName: room, KeyCount: &count, ClearlyIdentified: &yes,
		Condition: domain.ConditionGood, Tested: &yes,
	}
}

func meterInput(number string) *domain.MeterInput {
	reading, yes := 1234.5, true
	return &domain.MeterInput{
		MeterType: domain.MeterWater, MeterNumber: number, CurrentReading: &reading,
		Condition: domain.ConditionGood, SealIntact: &yes, Leaks: new(bool),
	}
}

// countRows reports how many rows of table reference inspectionID.
func (f *fixture) countRows(t *testing.T, table, inspectionID string) int {
	t.Helper()
	var n int
	err := f.db.QueryRow(f.db.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE inspection_id = ?`), inspectionID).Scan(&n)
	require.NoError(t, err)
	return n
}
