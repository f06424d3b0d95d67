package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LabTestType string

const (
	LabTestBlood   LabTestType = "blood"
	LabTestUrine   LabTestType = "urine"
	LabTestStool   LabTestType = "stool"
	LabTestHormone LabTestType = "hormone"
	LabTestVitamin LabTestType = "vitamin"
	LabTestOther   LabTestType = "other"
)

// LabValue holds a clinical result that is numeric when parseable and
// otherwise kept as the raw string. Values like "<5.7" or "positivo" must
// survive storage and serialization untouched.
type LabValue struct {
	numeric *float64
	raw     string
}

func NewNumericLabValue(v float64) LabValue {
	return LabValue{numeric: &v, raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func NewRawLabValue(s string) LabValue {
	return LabValue{raw: s}
}

// ParseLabValue classifies a raw string, keeping the original text either way.
func ParseLabValue(s string) LabValue {
	trimmed := strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64); err == nil {
		return LabValue{numeric: &f, raw: trimmed}
	}
	return LabValue{raw: trimmed}
}

func (v LabValue) IsNumeric() bool {
	return v.numeric != nil
}

// Float returns the parsed value; ok is false for raw string values.
func (v LabValue) Float() (float64, bool) {
	if v.numeric == nil {
		return 0, false
	}
	return *v.numeric, true
}

func (v LabValue) String() string {
	return v.raw
}

func (v LabValue) MarshalJSON() ([]byte, error) {
	if v.numeric != nil {
		return json.Marshal(*v.numeric)
	}
	return json.Marshal(v.raw)
}

func (v *LabValue) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		v.numeric = &f
		v.raw = strconv.FormatFloat(f, 'f', -1, 64)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("lab value must be a number or a string: %w", err)
	}
	*v = ParseLabValue(s)
	return nil
}

// Value stores the raw text; numeric classification is re-derived on load.
func (v LabValue) Value() (driver.Value, error) {
	return v.raw, nil
}

func (v *LabValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case string:
		*v = ParseLabValue(s)
	case []byte:
		*v = ParseLabValue(string(s))
	case nil:
		*v = LabValue{}
	default:
		return fmt.Errorf("cannot scan %T into LabValue", src)
	}
	return nil
}

type LabResult struct {
	Base
	PatientID      uuid.UUID   `db:"patient_id" json:"patient_id"`
	OrganizationID uuid.UUID   `db:"organization_id" json:"organization_id"`
	Date           time.Time   `db:"date" json:"date"`
	TestType       LabTestType `db:"test_type" json:"test_type"`
	Name           string      `db:"name" json:"name"`
	Value          LabValue    `db:"value" json:"value"`
	Unit           *string     `db:"unit" json:"unit,omitempty"`
	ReferenceRange *string     `db:"reference_range" json:"reference_range,omitempty"`
}

type CreateLabResultRequest struct {
	Date           time.Time   `json:"date" binding:"required"`
	TestType       LabTestType `json:"test_type" binding:"required,oneof=blood urine stool hormone vitamin other"`
	Name           string      `json:"name" binding:"required"`
	Value          string      `json:"value" binding:"required"`
	Unit           *string     `json:"unit"`
	ReferenceRange *string     `json:"reference_range"`
}

type LabResultFilters struct {
	PatientID      uuid.UUID
	OrganizationID uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
}
