package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
	"github.com/KaramelBytes/inflammation-cli/internal/logger"
)

func TestCreatePatientAndDoctor(t *testing.T) {
	p := NewPatient("Alice")
	d := NewDoctor("Alice")

	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "Alice", d.Name)
	assert.NotEmpty(t, p.ID)
	assert.NotEqual(t, p.ID, d.ID)

	for _, person := range []Person{p, d} {
		assert.Equal(t, "Alice", person.DisplayName())
	}
}

func TestAddObservationDays(t *testing.T) {
	p := NewPatient("Alice")

	first := p.AddObservation(5)
	assert.Equal(t, 0, first.Day())
	assert.Equal(t, 5.0, first.Value())

	second := p.AddObservation(7)
	assert.Equal(t, 1, second.Day())

	explicit, err := p.AddObservationOn(10, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, explicit.Day())

	next := p.AddObservation(1)
	assert.Equal(t, 11, next.Day(), "day follows the last recorded day")

	obs := p.Observations()
	require.Len(t, obs, 4)
	assert.Equal(t, []int{0, 1, 10, 11}, []int{obs[0].Day(), obs[1].Day(), obs[2].Day(), obs[3].Day()})
}

func TestAddObservationOnRejectsNegativeDay(t *testing.T) {
	p := NewPatient("Alice")
	_, err := p.AddObservationOn(-1, 2)
	assert.True(t, errors.Is(err, errors.ErrDomain), "got %v", err)
	assert.Empty(t, p.Observations())
}

func TestObservationsReturnsCopy(t *testing.T) {
	p := NewPatient("Alice")
	p.AddObservation(1)
	obs := p.Observations()
	obs[0] = newObservation(99, 99)

	last, err := p.LastObservation()
	require.NoError(t, err)
	assert.Equal(t, 0, last.Day())
}

func TestLastObservation(t *testing.T) {
	p := NewPatient("Alice")
	_, err := p.LastObservation()
	assert.True(t, errors.Is(err, errors.ErrEmptyCollection), "got %v", err)

	p.AddObservation(2)
	p.AddObservation(4)
	last, err := p.LastObservation()
	require.NoError(t, err)
	assert.Equal(t, 4.0, last.Value())
	assert.Equal(t, 1, last.Day())
}

func TestAddPatient(t *testing.T) {
	d := NewDoctor("Alice")
	added, err := d.AddPatient(NewPatient("Alice"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, d.Len())
}

func TestNoDuplicatePatient(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core).Sugar())
	defer logger.Set(nil)

	d := NewDoctor("Alice")
	first := NewPatient("Bob")
	first.AddObservation(1)

	_, err := d.AddPatient(first)
	require.NoError(t, err)
	added, err := d.AddPatient(first)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = d.AddPatient(NewPatient("Bob"))
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, d.Len())
	got, ok := d.Patient("Bob")
	require.True(t, ok)
	assert.Same(t, first, got, "first registration wins")
	assert.Equal(t, 2, logs.FilterMessage("patient already registered").Len())
}

func TestAddPatientNil(t *testing.T) {
	d := NewDoctor("Alice")
	_, err := d.AddPatient(nil)
	assert.True(t, errors.Is(err, errors.ErrTypeMismatch), "got %v", err)
	assert.Equal(t, 0, d.Len())
}

func TestPatientsOrder(t *testing.T) {
	d := NewDoctor("Alice")
	for _, name := range []string{"Zed", "Amy", "Moe"} {
		_, err := d.AddPatient(NewPatient(name))
		require.NoError(t, err)
	}
	var names []string
	for _, p := range d.Patients() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Zed", "Amy", "Moe"}, names)
}

func TestDoctorJSONRoundTrip(t *testing.T) {
	d := NewDoctor("Alice")
	p := NewPatient("Bob")
	p.AddObservation(1.5)
	p.AddObservation(math.NaN())
	_, err := d.AddPatient(p)
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":null`)

	var got Doctor
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, d.ID, got.ID)
	bob, ok := got.Patient("Bob")
	require.True(t, ok)
	obs := bob.Observations()
	require.Len(t, obs, 2)
	assert.Equal(t, 1.5, obs[0].Value())
	assert.True(t, math.IsNaN(obs[1].Value()))
	assert.Equal(t, 1, obs[1].Day())
}

func TestObservationJSONInfinity(t *testing.T) {
	p := NewPatient("Alice")
	p.AddObservation(math.Inf(1))
	p.AddObservation(math.Inf(-1))

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":"inf"`)
	assert.Contains(t, string(b), `"value":"-inf"`)

	var got Patient
	require.NoError(t, json.Unmarshal(b, &got))
	obs := got.Observations()
	require.Len(t, obs, 2)
	assert.True(t, math.IsInf(obs[0].Value(), 1))
	assert.True(t, math.IsInf(obs[1].Value(), -1))
}

func TestObservationUnmarshalRejects(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		domain bool
	}{
		{"negative day", `{"day":-3,"value":1}`, true},
		{"unknown string", `{"day":0,"value":"high"}`, false},
		{"wrong type", `{"day":0,"value":true}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Observation
			err := json.Unmarshal([]byte(tt.in), &o)
			require.Error(t, err)
			if tt.domain {
				assert.True(t, errors.Is(err, errors.ErrDomain), "got %v", err)
			}
		})
	}
}
