package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
	"github.com/KaramelBytes/inflammation-cli/internal/logger"
)

// Doctor keeps the patients registered with them, keyed by patient name.
// The doctor does not own the patients; registering only associates them.
type Doctor struct {
	ID   string
	Name string

	patients []*Patient
	index    map[string]int
}

// NewDoctor constructs a doctor with no patients.
func NewDoctor(name string) *Doctor {
	return &Doctor{ID: uuid.NewString(), Name: name, index: map[string]int{}}
}

// DisplayName returns the doctor's name.
func (d *Doctor) DisplayName() string { return d.Name }

// AddPatient registers p. Registering a second patient with an existing name
// is a no-op that reports false; the first registration wins.
func (d *Doctor) AddPatient(p *Patient) (bool, error) {
	if p == nil {
		return false, errors.Wrap(errors.ErrTypeMismatch, "patient must be a *Patient; nil given")
	}
	if d.index == nil {
		d.index = map[string]int{}
	}
	if _, ok := d.index[p.Name]; ok {
		logger.Logger.Infow("patient already registered",
			"doctor", d.Name,
			"patient", p.Name)
		return false, nil
	}
	d.index[p.Name] = len(d.patients)
	d.patients = append(d.patients, p)
	return true, nil
}

// Patient looks up a registered patient by name.
func (d *Doctor) Patient(name string) (*Patient, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.patients[i], true
}

// Patients returns the registered patients in registration order.
func (d *Doctor) Patients() []*Patient {
	out := make([]*Patient, len(d.patients))
	copy(out, d.patients)
	return out
}

// Len returns the number of registered patients.
func (d *Doctor) Len() int { return len(d.patients) }

type doctorJSON struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Patients []*Patient `json:"patients"`
}

func (d *Doctor) MarshalJSON() ([]byte, error) {
	ps := d.patients
	if ps == nil {
		ps = []*Patient{}
	}
	return json.Marshal(doctorJSON{ID: d.ID, Name: d.Name, Patients: ps})
}

// UnmarshalJSON rebuilds the name index, applying the same first-wins rule
// as AddPatient to any duplicate names in the input.
func (d *Doctor) UnmarshalJSON(b []byte) error {
	var in doctorJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	d.ID = in.ID
	d.Name = in.Name
	d.patients = nil
	d.index = map[string]int{}
	for _, p := range in.Patients {
		if _, err := d.AddPatient(p); err != nil {
			return err
		}
	}
	return nil
}
