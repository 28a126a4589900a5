package domain

import "time"

type InspectionStatus string

const (
	StatusDraft      InspectionStatus = "draft"
	StatusInProgress InspectionStatus = "in_progress"
	StatusCompleted  InspectionStatus = "completed"
)

func (s InspectionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Condition grades rooms, areas, keys and meters.
type Condition string

const (
	ConditionOptimal Condition = "optimal"
	ConditionGood    Condition = "good"
	ConditionRegular Condition = "regular"
	ConditionBad     Condition = "bad"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionOptimal, ConditionGood, ConditionRegular, ConditionBad:
		return true
	}
	return false
}

type MeterType string

const (
	MeterWater       MeterType = "water"
	MeterElectricity MeterType = "electricity"
	MeterGas         MeterType = "gas"
)

func (m MeterType) Valid() bool {
	switch m {
	case MeterWater, MeterElectricity, MeterGas:
		return true
	}
	return false
}

type ChecklistType string

const (
	ChecklistKeys   ChecklistType = "keys"
	ChecklistMeters ChecklistType = "meters"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PropertyData describes the inspected property. Address is the only
// required field.
type PropertyData struct {
	Address          string       `json:"address"`
	Number           string       `json:"number,omitempty"`
	Complement       string       `json:"complement,omitempty"`
	Neighborhood     string       `json:"neighborhood,omitempty"`
	City             string       `json:"city,omitempty"`
	State            string       `json:"state,omitempty"`
	ZipCode          string       `json:"zip_code,omitempty"`
	Type             string       `json:"type,omitempty"`
	Furnishing       string       `json:"furnishing,omitempty"`
	TotalArea        *float64     `json:"total_area,omitempty"`
	ConstructionYear *int         `json:"construction_year,omitempty"`
	ClientName       string       `json:"client_name,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
}

type StructuralConditions struct {
	Walls    string `json:"walls,omitempty"`
	Floors   string `json:"floors,omitempty"`
	Ceilings string `json:"ceilings,omitempty"`
	Doors    string `json:"doors,omitempty"`
	Windows  string `json:"windows,omitempty"`
	Roof     string `json:"roof,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type Installations struct {
	Electrical string `json:"electrical,omitempty"`
	Plumbing   string `json:"plumbing,omitempty"`
	Gas        string `json:"gas,omitempty"`
	HVAC       string `json:"hvac,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type InspectorData struct {
	Name         string `json:"name"`
	Registration string `json:"registration,omitempty"`
	Signature    string `json:"signature,omitempty"`
	Date         string `json:"date,omitempty"`
}

type Inspection struct {
	ID                   string               `json:"id"`
	UserID               string               `json:"user_id"`
	Protocol             string               `json:"protocol"`
	PropertyData         PropertyData         `json:"property_data"`
	StructuralConditions StructuralConditions `json:"structural_conditions"`
	Installations        Installations        `json:"installations"`
	InspectorData        InspectorData        `json:"inspector_data"`
	TemplateID           *string              `json:"template_id"`
	Notes                string               `json:"notes"`
	Status               InspectionStatus     `json:"status"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

type AreaItem struct {
	Name         string    `json:"name"`
	Condition    Condition `json:"condition,omitempty"`
	Observations string    `json:"observations,omitempty"`
}

// Area is the shared shape of rooms and external areas.
type Area struct {
	ID           string     `json:"id"`
	InspectionID string     `json:"inspection_id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Condition    Condition  `json:"condition"`
	Items        []AreaItem `json:"items"`
	Notes        string     `json:"notes"`
	Photos       []string   `json:"photos"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Key struct {
	ID                string    `json:"id"`
	InspectionID      string    `json:"inspection_id"`
	RoomName          string    `json:"room_name"`
	KeyCount          int       `json:"key_count"`
	ClearlyIdentified bool      `json:"clearly_identified"`
	Condition         Condition `json:"condition"`
	Tested            bool      `json:"tested"`
	Photos            []string  `json:"photos"`
	Observations      string    `json:"observations"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Meter carries the common reading plus the optional per-type checks:
// leaks (water), display type and breakers (electricity), leak test and
// safety valve (gas).
type Meter struct {
	ID                 string    `json:"id"`
	InspectionID       string    `json:"inspection_id"`
	MeterType          MeterType `json:"meter_type"`
	MeterNumber        string    `json:"meter_number"`
	CurrentReading     float64   `json:"current_reading"`
	Condition          Condition `json:"condition"`
	SealIntact         bool      `json:"seal_intact"`
	Photos             []string  `json:"photos"`
	Observations       string    `json:"observations"`
	Leaks              *bool     `json:"leaks"`
	MeterDisplayType   *string   `json:"meter_display_type"`
	BreakersWorking    *bool     `json:"breakers_working"`
	LeakTestDone       *bool     `json:"leak_test_done"`
	SafetyValveWorking *bool     `json:"safety_valve_working"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ChecklistItem struct {
	ID            string        `json:"id"`
	InspectionID  string        `json:"inspection_id"`
	ChecklistType ChecklistType `json:"checklist_type"`
	ItemLabel     string        `json:"item_label"`
	IsChecked     bool          `json:"is_checked"`
	Observations  string        `json:"observations"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type TemplateSection struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type Template struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Sections    []TemplateSection `json:"sections"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type ChecklistGroups struct {
	Keys   []*ChecklistItem `json:"keys"`
	Meters []*ChecklistItem `json:"meters"`
}

type KeysAndMeters struct {
	Keys      []*Key          `json:"keys"`
	Meters    []*Meter        `json:"meters"`
	Checklist ChecklistGroups `json:"checklist"`
}

// InspectionRecord is an inspection together with every child record. It is
// the payload sent to the PDF renderer and returned on the fallback path.
type InspectionRecord struct {
	*Inspection
	Rooms         []*Area          `json:"rooms"`
	ExternalAreas []*Area          `json:"external_areas"`
	Keys          []*Key           `json:"keys"`
	Meters        []*Meter         `json:"meters"`
	Checklist     []*ChecklistItem `json:"keys_meters_checklist"`
}

// Summary counts a user's inspections by status.
type Summary struct {
	Total    int                      `json:"total"`
	ByStatus map[InspectionStatus]int `json:"by_status"`
	Recent   []*Inspection            `json:"recent"`
}
