package domain

import (
	"net/mail"
	"strconv"
	"strings"
)

// Input types use pointers for required fields so a missing field can be
// told apart from a zero value.

type InspectionInput struct {
	PropertyData         *PropertyData         `json:"property_data"`
	StructuralConditions *StructuralConditions `json:"structural_conditions"`
	Installations        *Installations        `json:"installations"`
	InspectorData        *InspectorData        `json:"inspector_data"`
	TemplateID           *string               `json:"template_id"`
	Notes                string                `json:"notes"`
	Status               InspectionStatus      `json:"status"`
}

func (in *InspectionInput) Validate() error {
	v := &ValidationError{}
	if in.PropertyData == nil {
		v.add("property_data", "Property data is required")
	} else if strings.TrimSpace(in.PropertyData.Address) == "" {
		v.add("property_data.address", "Property address is required")
	}
	if in.StructuralConditions == nil {
		v.add("structural_conditions", "Structural conditions data is required")
	}
	if in.Installations == nil {
		v.add("installations", "Installations data is required")
	}
	if in.InspectorData == nil {
		v.add("inspector_data", "Inspector data is required")
	} else if strings.TrimSpace(in.InspectorData.Name) == "" {
		v.add("inspector_data.name", "Inspector name is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		v.add("status", "Status must be draft, in_progress or completed")
	}
	return v.err()
}

type AreaInput struct {
	InspectionID string      `json:"inspection_id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Condition    Condition   `json:"condition"`
	Items        *[]AreaItem `json:"items"`
	Notes        string      `json:"notes"`
	Photos       []string    `json:"photos"`
}

func (in *AreaInput) Validate() error {
	return in.validate(true)
}

// ValidateUpdate is Validate without the inspection id; an area never moves
// to another inspection.
func (in *AreaInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in *AreaInput) validate(needInspection bool) error {
	v := &ValidationError{}
	if needInspection && strings.TrimSpace(in.InspectionID) == "" {
		v.add("inspection_id", "Inspection ID is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.add("name", "Area name is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		v.add("type", "Area type is required")
	}
	if !in.Condition.Valid() {
		v.add("condition", "Condition must be optimal, good, regular or bad")
	}
	if in.Items == nil {
		v.add("items", "Items must be an array")
	} else {
		for i, item := range *in.Items {
			if strings.TrimSpace(item.Name) == "" {
				v.add("items["+strconv.Itoa(i)+"].name", "Item name is required")
			}
			if item.Condition != "" && !item.Condition.Valid() {
				v.add("items["+strconv.Itoa(i)+"].condition", "Condition must be optimal, good, regular or bad")
			}
		}
	}
	return v.err()
}

type KeyInput struct {
	RoomName          string    `json:"room_name"`
	KeyCount          *int      `json:"key_count"`
	ClearlyIdentified *bool     `json:"clearly_identified"`
	Condition         Condition `json:"condition"`
	Tested            *bool     `json:"tested"`
	Photos            []string  `json:"photos"`
	Observations      string    `json:"observations"`
}

func (in *KeyInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.RoomName) == "" {
		v.add("room_name", "Room name is required")
	}
	if in.KeyCount == nil || *in.KeyCount < 1 {
		v.add("key_count", "Key count must be a number greater than zero")
	}
	if in.ClearlyIdentified == nil {
		v.add("clearly_identified", "Clearly identified must be a boolean")
	}
	if !in.Condition.Valid() {
		v.add("condition", "Condition must be optimal, good, regular or bad")
	}
	if in.Tested == nil {
		v.add("tested", "Tested must be a boolean")
	}
	return v.err()
}

type MeterInput struct {
	MeterType          MeterType `json:"meter_type"`
	MeterNumber        string    `json:"meter_number"`
	CurrentReading     *float64  `json:"current_reading"`
	Condition          Condition `json:"condition"`
	SealIntact         *bool     `json:"seal_intact"`
	Photos             []string  `json:"photos"`
	Observations       string    `json:"observations"`
	Leaks              *bool     `json:"leaks"`
	MeterDisplayType   *string   `json:"meter_display_type"`
	BreakersWorking    *bool     `json:"breakers_working"`
	LeakTestDone       *bool     `json:"leak_test_done"`
	SafetyValveWorking *bool     `json:"safety_valve_working"`
}

func (in *MeterInput) Validate() error {
	v := &ValidationError{}
	if !in.MeterType.Valid() {
		v.add("meter_type", "Meter type must be water, electricity or gas")
	}
	if strings.TrimSpace(in.MeterNumber) == "" {
		v.add("meter_number", "Meter number is required")
	}
	if in.CurrentReading == nil {
		v.add("current_reading", "Current reading must be a number")
	}
	if !in.Condition.Valid() {
		v.add("condition", "Condition must be optimal, good, regular or bad")
	}
	if in.SealIntact == nil {
		v.add("seal_intact", "Seal intact must be a boolean")
	}
	if in.MeterDisplayType != nil && *in.MeterDisplayType != "digital" && *in.MeterDisplayType != "analog" {
		v.add("meter_display_type", "Display type must be digital or analog")
	}
	return v.err()
}

// ChecklistEntry is one item of a checklist save. An entry with an ID
// updates that row; one without inserts a new row.
type ChecklistEntry struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	IsChecked    bool   `json:"isChecked"`
	Observations string `json:"observations"`
}

type ChecklistGroupsInput struct {
	Keys   []ChecklistEntry `json:"keys"`
	Meters []ChecklistEntry `json:"meters"`
}

type ChecklistInput struct {
	Checklist *ChecklistGroupsInput `json:"checklist"`
}

func (in *ChecklistInput) Validate() error {
	v := &ValidationError{}
	if in.Checklist == nil {
		v.add("checklist", "Checklist must be an object")
		return v.err()
	}
	check := func(group string, entries []ChecklistEntry) {
		for i, e := range entries {
			if e.ID == "" && strings.TrimSpace(e.Label) == "" {
				v.add("checklist."+group+"["+strconv.Itoa(i)+"].label", "Label is required for new items")
			}
		}
	}
	check("keys", in.Checklist.Keys)
	check("meters", in.Checklist.Meters)
	return v.err()
}

type TemplateSectionInput struct {
	Name  string    `json:"name"`
	Items *[]string `json:"items"`
}

type TemplateInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Sections    *[]TemplateSectionInput `json:"sections"`
}

func (in *TemplateInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.add("name", "Template name is required")
	}
	if in.Sections == nil {
		v.add("sections", "Sections must be an array")
		return v.err()
	}
	for i, s := range *in.Sections {
		prefix := "sections[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(s.Name) == "" {
			v.add(prefix+".name", "Section name is required")
		}
		if s.Items == nil {
			v.add(prefix+".items", "Section items must be an array")
		}
	}
	return v.err()
}

// TemplateSections converts validated input sections to their stored form.
func (in *TemplateInput) TemplateSections() []TemplateSection {
	if in.Sections == nil {
		return nil
	}
	out := make([]TemplateSection, 0, len(*in.Sections))
	for _, s := range *in.Sections {
		var items []string
		if s.Items != nil {
			items = *s.Items
		}
		out = append(out, TemplateSection{Name: s.Name, Items: items})
	}
	return out
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (in *RegisterInput) Validate() error {
	v := &ValidationError{}
	if !validEmail(in.Email) {
		v.add("email", "Please provide a valid email")
	}
	if len(in.Password) < 6 {
		v.add("password", "Password must be at least 6 characters long")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.add("name", "Name is required")
	}
	return v.err()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	v := &ValidationError{}
	if !validEmail(in.Email) {
		v.add("email", "Please provide a valid email")
	}
	if in.Password == "" {
		v.add("password", "Password is required")
	}
	return v.err()
}

type ProfileInput struct {
	Name string `json:"name"`
}

func (in *ProfileInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.add("name", "Name is required")
	}
	return v.err()
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
