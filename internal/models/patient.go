// Package models holds the patient record types: observations, patients and
// the doctors they are registered with.
package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

// Person is anything with a display name. Patient and Doctor both satisfy it.
type Person interface {
	DisplayName() string
}

var (
	_ Person = (*Patient)(nil)
	_ Person = (*Doctor)(nil)
)

// Patient is identified by name and owns an append-only list of observations.
type Patient struct {
	ID   string
	Name string

	observations []Observation
}

// NewPatient constructs a patient with no observations.
func NewPatient(name string) *Patient {
	return &Patient{ID: uuid.NewString(), Name: name}
}

// DisplayName returns the patient's name.
func (p *Patient) DisplayName() string { return p.Name }

// AddObservation appends a reading on the day after the most recently added
// one, or day 0 for the first reading.
func (p *Patient) AddObservation(value float64) Observation {
	day := 0
	if n := len(p.observations); n > 0 {
		day = p.observations[n-1].day + 1
	}
	o := newObservation(day, value)
	p.observations = append(p.observations, o)
	return o
}

// AddObservationOn appends a reading for an explicit day.
func (p *Patient) AddObservationOn(day int, value float64) (Observation, error) {
	if day < 0 {
		return Observation{}, errors.Wrapf(errors.ErrDomain, "observation day %d is negative", day)
	}
	o := newObservation(day, value)
	p.observations = append(p.observations, o)
	return o, nil
}

// LastObservation returns the most recently added observation.
func (p *Patient) LastObservation() (Observation, error) {
	if len(p.observations) == 0 {
		return Observation{}, errors.Wrapf(errors.ErrEmptyCollection, "patient %q has no observations", p.Name)
	}
	return p.observations[len(p.observations)-1], nil
}

// Observations returns a copy of the observations in insertion order.
func (p *Patient) Observations() []Observation {
	out := make([]Observation, len(p.observations))
	copy(out, p.observations)
	return out
}

type patientJSON struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

func (p *Patient) MarshalJSON() ([]byte, error) {
	obs := p.observations
	if obs == nil {
		obs = []Observation{}
	}
	return json.Marshal(patientJSON{ID: p.ID, Name: p.Name, Observations: obs})
}

func (p *Patient) UnmarshalJSON(b []byte) error {
	var in patientJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	p.ID = in.ID
	p.Name = in.Name
	p.observations = in.Observations
	return nil
}
