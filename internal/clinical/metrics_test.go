package clinical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nutrivo/practice-api/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday already passed", date(1990, time.January, 15), date(2024, time.June, 1), 34},
		{"birthday today", date(1990, time.June, 1), date(2024, time.June, 1), 34},
		{"birthday tomorrow", date(1990, time.June, 2), date(2024, time.June, 1), 33},
		{"leap day boundary", date(2000, time.March, 1), date(2024, time.February, 29), 23},
		{"same month earlier day", date(2000, time.February, 10), date(2024, time.February, 29), 24},
		{"newborn", date(2024, time.January, 1), date(2024, time.June, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, tt.today))
		})
	}
}

func TestExtractDiagnoses(t *testing.T) {
	notes := "paciente com hipertensão e histórico familiar de diabetes"

	t.Run("matching tags returned verbatim", func(t *testing.T) {
		got := ExtractDiagnoses([]string{"Diabetes tipo 2", "vegetariano"}, nil)
		assert.Equal(t, []string{"Diabetes tipo 2"}, got)
	})

	t.Run("notes fallback emits capitalized keywords", func(t *testing.T) {
		got := ExtractDiagnoses([]string{}, &notes)
		assert.Equal(t, []string{"Diabetes", "Hipertensão"}, got)
	})

	t.Run("tags suppress notes fallback", func(t *testing.T) {
		got := ExtractDiagnoses([]string{"Alergia a lactose"}, &notes)
		assert.Equal(t, []string{"Alergia a lactose"}, got)
	})

	t.Run("nothing matches", func(t *testing.T) {
		assert.Empty(t, ExtractDiagnoses([]string{}, nil))
		assert.Empty(t, ExtractDiagnoses([]string{"atleta"}, nil))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		got := ExtractDiagnoses([]string{"OBESIDADE grau 1"}, nil)
		assert.Equal(t, []string{"OBESIDADE grau 1"}, got)
	})
}

func TestComputeVariation(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	t.Run("decrease", func(t *testing.T) {
		v := ComputeVariation(f(70.5), f(72.0))
		assert.NotNil(t, v)
		assert.InDelta(t, 1.5, v.Magnitude, 1e-9)
		assert.False(t, v.IsIncrease)
	})

	t.Run("increase", func(t *testing.T) {
		v := ComputeVariation(f(75.0), f(72.0))
		assert.NotNil(t, v)
		assert.InDelta(t, 3.0, v.Magnitude, 1e-9)
		assert.True(t, v.IsIncrease)
	})

	t.Run("zero delta counts as increase", func(t *testing.T) {
		v := ComputeVariation(f(72.0), f(72.0))
		assert.NotNil(t, v)
		assert.Zero(t, v.Magnitude)
		assert.True(t, v.IsIncrease)
	})

	t.Run("nil operands", func(t *testing.T) {
		assert.Nil(t, ComputeVariation(nil, f(72.0)))
		assert.Nil(t, ComputeVariation(f(72.0), nil))
	})
}

func TestAttendanceRate(t *testing.T) {
	records := []model.MeetingRecord{
		{Present: true},
		{Present: true},
		{Present: false},
	}

	t.Run("normal rate", func(t *testing.T) {
		assert.InDelta(t, 2.0/6.0, AttendanceRate(records, 3, 2), 1e-9)
	})

	t.Run("zero participants", func(t *testing.T) {
		assert.Zero(t, AttendanceRate(records, 0, 5))
	})

	t.Run("zero meetings", func(t *testing.T) {
		assert.Zero(t, AttendanceRate(nil, 3, 0))
	})
}

func TestHalvesDelta(t *testing.T) {
	t.Run("even length", func(t *testing.T) {
		d := HalvesDelta([]float64{80, 78, 76, 74})
		assert.NotNil(t, d)
		assert.InDelta(t, -4.0, *d, 1e-9)
	})

	t.Run("odd length gives remainder to second half", func(t *testing.T) {
		// split at floor(5/2)=2: [10 20] vs [30 40 50]
		d := HalvesDelta([]float64{10, 20, 30, 40, 50})
		assert.NotNil(t, d)
		assert.InDelta(t, 25.0, *d, 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		assert.Nil(t, HalvesDelta(nil))
		assert.Nil(t, HalvesDelta([]float64{42}))
	})
}
