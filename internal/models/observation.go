package models

import (
	"encoding/json"
	"math"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

// Observation is a single inflammation reading taken on a given day.
// Its fields cannot be changed after creation.
type Observation struct {
	day   int
	value float64
}

// newObservation creates an observation. Callers validate that day is
// non-negative.
func newObservation(day int, value float64) Observation {
	return Observation{day: day, value: value}
}

// Day returns the zero-based day of the reading.
func (o Observation) Day() int { return o.day }

// Value returns the reading.
func (o Observation) Value() float64 { return o.value }

type observationJSON struct {
	Day   int             `json:"day"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes a missing (NaN) reading as null and infinities as the
// strings "inf" and "-inf".
func (o Observation) MarshalJSON() ([]byte, error) {
	var v any
	switch {
	case math.IsNaN(o.value):
		v = nil
	case math.IsInf(o.value, 1):
		v = "inf"
	case math.IsInf(o.value, -1):
		v = "-inf"
	default:
		v = o.value
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(observationJSON{Day: o.day, Value: raw})
}

// UnmarshalJSON is the inverse of MarshalJSON. Negative days are rejected.
func (o *Observation) UnmarshalJSON(b []byte) error {
	var in observationJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Day < 0 {
		return errors.Wrapf(errors.ErrDomain, "observation day %d is negative", in.Day)
	}
	value := math.NaN()
	if len(in.Value) > 0 && string(in.Value) != "null" {
		var s string
		if err := json.Unmarshal(in.Value, &s); err == nil {
			switch s {
			case "inf":
				value = math.Inf(1)
			case "-inf":
				value = math.Inf(-1)
			default:
				return errors.Newf("observation value %q is not a number", s)
			}
		} else if err := json.Unmarshal(in.Value, &value); err != nil {
			return errors.Wrap(err, "observation value")
		}
	}
	o.day = in.Day
	o.value = value
	return nil
}
