package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"github.com/geohome/geohome/internal/domain"
)

type KeysMetersService struct {
	inspections inspectionRepository
	keys        keyRepository
	meters      meterRepository
	checklist   checklistRepository
	logger      *slog.Logger
}

func NewKeysMetersService(
	inspections inspectionRepository,
	keys keyRepository,
	meters meterRepository,
	checklist checklistRepository,
	logger *slog.Logger,
) *KeysMetersService {
	return &KeysMetersService{
		inspections: inspections,
		keys:        keys,
		meters:      meters,
		checklist:   checklist,
		logger:      logger,
	}
}

// Get returns the keys, meters and grouped checklist of an inspection.
func (s *KeysMetersService) Get(ctx context.Context, userID, inspectionID string) (*domain.KeysAndMeters, error) {
	if _, err := ownedInspection(ctx, s.inspections, inspectionID, userID); err != nil {
		return nil, err
	}

	keys, err := s.keys.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	meters, err := s.meters.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	checklist, err := s.groupedChecklist(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	return &domain.KeysAndMeters{Keys: keys, Meters: meters, Checklist: *checklist}, nil
}

// SaveChecklist updates entries that carry an id and inserts the others.
// All writes run concurrently and none is rolled back when another fails;
// the failures come back together as a *domain.BatchError. Only a fully
// successful save moves the inspection to in_progress.
func (s *KeysMetersService) SaveChecklist(ctx context.Context, userID, inspectionID string, in *domain.ChecklistInput) (*domain.ChecklistGroups, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := ownedInspection(ctx, s.inspections, inspectionID, userID); err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	save := func(kind domain.ChecklistType, e domain.ChecklistEntry) {
		defer wg.Done()
		var err error
		if e.ID != "" {
			if err = s.checklist.UpdateScoped(ctx, e.ID, inspectionID, e.IsChecked, e.Observations); err != nil {
				err = fmt.Errorf("update checklist item %s: %w", e.ID, err)
			}
		} else {
			_, err = s.checklist.Insert(ctx, &domain.ChecklistItem{
				InspectionID:  inspectionID,
				ChecklistType: kind,
				ItemLabel:     e.Label,
				IsChecked:     e.IsChecked,
				Observations:  e.Observations,
			})
			if err != nil {
				err = fmt.Errorf("insert checklist item %q: %w", e.Label, err)
			}
		}
		if err != nil {
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
		}
	}

	for _, e := range in.Checklist.Keys {
		wg.Add(1)
		go save(domain.ChecklistKeys, e)
	}
	for _, e := range in.Checklist.Meters {
		wg.Add(1)
		go save(domain.ChecklistMeters, e)
	}
	wg.Wait()

	if errs != nil {
		s.logger.Warn("checklist save partially failed", "inspection_id", inspectionID,
			"failed", len(multierr.Errors(errs)), "error", errs)
		return nil, &domain.BatchError{Op: "save checklist", Err: errs}
	}

	if err := s.inspections.SetStatus(ctx, inspectionID, userID, domain.StatusInProgress); err != nil {
		return nil, err
	}
	return s.groupedChecklist(ctx, inspectionID)
}

func (s *KeysMetersService) AddKey(ctx context.Context, userID, inspectionID string, in *domain.KeyInput) (*domain.Key, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := ownedInspection(ctx, s.inspections, inspectionID, userID); err != nil {
		return nil, err
	}
	return s.keys.Create(ctx, &domain.Key{
		InspectionID:      inspectionID,
		RoomName:          in.RoomName,
		KeyCount:          *in.KeyCount,
		ClearlyIdentified: *in.ClearlyIdentified,
		Condition:         in.Condition,
		Tested:            *in.Tested,
		Photos:            in.Photos,
		Observations:      in.Observations,
	})
}

// UpdateKey rewrites a key. Omitted photos keep the stored list.
func (s *KeysMetersService) UpdateKey(ctx context.Context, userID, keyID string, in *domain.KeyInput) (*domain.Key, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := s.ownedKey(ctx, userID, keyID)
	if err != nil {
		return nil, err
	}

	photos := in.Photos
	if photos == nil {
		photos = current.Photos
	}
	return s.keys.Update(ctx, &domain.Key{
		ID:                keyID,
		InspectionID:      current.InspectionID,
		RoomName:          in.RoomName,
		KeyCount:          *in.KeyCount,
		ClearlyIdentified: *in.ClearlyIdentified,
		Condition:         in.Condition,
		Tested:            *in.Tested,
		Photos:            photos,
		Observations:      in.Observations,
	})
}

func (s *KeysMetersService) DeleteKey(ctx context.Context, userID, keyID string) error {
	if _, err := s.ownedKey(ctx, userID, keyID); err != nil {
		return err
	}
	return s.keys.Delete(ctx, keyID)
}

func (s *KeysMetersService) AddMeter(ctx context.Context, userID, inspectionID string, in *domain.MeterInput) (*domain.Meter, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := ownedInspection(ctx, s.inspections, inspectionID, userID); err != nil {
		return nil, err
	}
	m := meterFromInput(in)
	m.InspectionID = inspectionID
	return s.meters.Create(ctx, m)
}

// UpdateMeter rewrites a meter. Omitted photos keep the stored list.
func (s *KeysMetersService) UpdateMeter(ctx context.Context, userID, meterID string, in *domain.MeterInput) (*domain.Meter, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := s.ownedMeter(ctx, userID, meterID)
	if err != nil {
		return nil, err
	}

	m := meterFromInput(in)
	m.ID = meterID
	m.InspectionID = current.InspectionID
	if m.Photos == nil {
		m.Photos = current.Photos
	}
	return s.meters.Update(ctx, m)
}

func (s *KeysMetersService) DeleteMeter(ctx context.Context, userID, meterID string) error {
	if _, err := s.ownedMeter(ctx, userID, meterID); err != nil {
		return err
	}
	return s.meters.Delete(ctx, meterID)
}

func (s *KeysMetersService) ownedKey(ctx context.Context, userID, id string) (*domain.Key, error) {
	k, err := s.keys.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrNotFound
	}
	return k, nil
}

func (s *KeysMetersService) ownedMeter(ctx context.Context, userID, id string) (*domain.Meter, error) {
	m, err := s.meters.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *KeysMetersService) groupedChecklist(ctx context.Context, inspectionID string) (*domain.ChecklistGroups, error) {
	items, err := s.checklist.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	groups := &domain.ChecklistGroups{
		Keys:   []*domain.ChecklistItem{},
		Meters: []*domain.ChecklistItem{},
	}
	for _, it := range items {
		switch it.ChecklistType {
		case domain.ChecklistKeys:
			groups.Keys = append(groups.Keys, it)
		case domain.ChecklistMeters:
			groups.Meters = append(groups.Meters, it)
		}
	}
	return groups, nil
}

func meterFromInput(in *domain.MeterInput) *domain.Meter {
	return &domain.Meter{
		MeterType:          in.MeterType,
		MeterNumber:        in.MeterNumber,
		CurrentReading:     *in.CurrentReading,
		Condition:          in.Condition,
		SealIntact:         *in.SealIntact,
		Photos:             in.Photos,
		Observations:       in.Observations,
		Leaks:              in.Leaks,
		MeterDisplayType:   in.MeterDisplayType,
		BreakersWorking:    in.BreakersWorking,
		LeakTestDone:       in.LeakTestDone,
		SafetyValveWorking: in.SafetyValveWorking,
	}
}
