package model

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Status is the lifecycle state of a situation.
type Status uint8

const (
	// StatusUnspecified is the zero value and never persisted.
	StatusUnspecified Status = iota
	StatusDraft
	StatusValidated
	StatusInvoiced
	StatusPaid
)

var statusLabels = map[Status]string{
	StatusDraft:     "brouillon",
	StatusValidated: "validee",
	StatusInvoiced:  "facturee",
	StatusPaid:      "payee",
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unspecified"
}

// ParseStatus maps a persisted label back to its Status.
func ParseStatus(label string) (Status, error) {
	for status, l := range statusLabels {
		if l == label {
			return status, nil
		}
	}
	return StatusUnspecified, fmt.Errorf("unknown situation status %q", label)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if _, ok := statusLabels[s]; !ok {
		return nil, fmt.Errorf("cannot marshal situation status %d", s)
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
