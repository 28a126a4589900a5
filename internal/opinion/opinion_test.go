package opinion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geohome/geohome/internal/domain"
)

func TestPrompt(t *testing.T) {
	record := &domain.InspectionRecord{
		Inspection: &domain.Inspection{
			Protocol:             "VST202501020001",
			PropertyData:         domain.PropertyData{Address: "Rua A", Number: "10", City: "Recife", State: "PE"},
			StructuralConditions: domain.StructuralConditions{Walls: "cracked"},
		},
		Rooms: []*domain.Area{{
			Name: "Cozinha", Type: "kitchen", Condition: domain.ConditionBad,
			Items: []domain.AreaItem{{Name: "Pia", Condition: domain.ConditionRegular, Observations: "leaking"}},
		}},
		Meters: []*domain.Meter{{MeterType: domain.MeterWater, MeterNumber: "A1", CurrentReading: 12.5}},
	}

	prompt := Prompt(record)
	assert.Contains(t, prompt, "VST202501020001")
	assert.Contains(t, prompt, "Rua A 10")
	assert.Contains(t, prompt, "Walls: cracked")
	assert.Contains(t, prompt, "Cozinha (kitchen): bad")
	assert.Contains(t, prompt, "Pia: regular leaking")
	assert.Contains(t, prompt, "water A1: reading 12.5")
	assert.NotContains(t, prompt, "Roof:")
	assert.NotContains(t, prompt, "Keys:")
}
