// Package opinion drafts the technical opinion paragraph of a report.
package opinion

import (
	"context"
	"fmt"
	"strings"

	"github.com/geohome/geohome/internal/domain"
)

type Drafter interface {
	Draft(ctx context.Context, record *domain.InspectionRecord) (string, error)
}

// Instructions is the system prompt shared by all drafters.
const Instructions = `You are a Brazilian property inspector writing the "Parecer Técnico"
section of a vistoria report. Write in Brazilian Portuguese, two to four short
paragraphs, plain text without markdown. Base every statement on the data
provided; do not invent defects. Mention items in bad or regular condition
first and close with an overall assessment of the property.`

// Prompt renders the record as the plain-text brief sent to the model.
func Prompt(record *domain.InspectionRecord) string {
	var b strings.Builder
	insp := record.Inspection

	fmt.Fprintf(&b, "Protocol: %s\n", insp.Protocol)
	p := insp.PropertyData
	fmt.Fprintf(&b, "Property: %s %s, %s, %s/%s\n", p.Address, p.Number, p.Neighborhood, p.City, p.State)
	if p.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", p.Type)
	}

	s := insp.StructuralConditions
	writeField(&b, "Walls", s.Walls)
	writeField(&b, "Floors", s.Floors)
	writeField(&b, "Ceilings", s.Ceilings)
	writeField(&b, "Doors", s.Doors)
	writeField(&b, "Windows", s.Windows)
	writeField(&b, "Roof", s.Roof)

	in := insp.Installations
	writeField(&b, "Electrical", in.Electrical)
	writeField(&b, "Plumbing", in.Plumbing)
	writeField(&b, "Gas", in.Gas)
	writeField(&b, "HVAC", in.HVAC)

	writeAreas(&b, "Rooms", record.Rooms)
	writeAreas(&b, "External areas", record.ExternalAreas)

	if len(record.Keys) > 0 {
		b.WriteString("Keys:\n")
		for _, k := range record.Keys {
			fmt.Fprintf(&b, "- %s: %d key(s), condition %s, tested %t\n", k.RoomName, k.KeyCount, k.Condition, k.Tested)
		}
	}
	if len(record.Meters) > 0 {
		b.WriteString("Meters:\n")
		for _, m := range record.Meters {
			fmt.Fprintf(&b, "- %s %s: reading %g, condition %s, seal intact %t\n",
				m.MeterType, m.MeterNumber, m.CurrentReading, m.Condition, m.SealIntact)
		}
	}
	writeField(&b, "Inspector notes", insp.Notes)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func writeAreas(b *strings.Builder, title string, areas []*domain.Area) {
	if len(areas) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, a := range areas {
		fmt.Fprintf(b, "- %s (%s): %s", a.Name, a.Type, a.Condition)
		if a.Notes != "" {
			fmt.Fprintf(b, ", %s", a.Notes)
		}
		b.WriteString("\n")
		for _, it := range a.Items {
			fmt.Fprintf(b, "  - %s: %s %s\n", it.Name, it.Condition, it.Observations)
		}
	}
}
