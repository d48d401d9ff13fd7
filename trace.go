package lister

import "encoding/json"

// Trace explains where the effective value of a configuration path came
// from.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance is one layer's contribution to a traced path.
type Provenance struct {
	Scope Scope `json:"scope"`
	Value any   `json:"value,omitempty"`
	Found bool  `json:"found"`
}

// Winner returns the strongest layer that supplies the path.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

func (t Trace) ToJSON() ([]byte, error) {
	return marshalJSON(t)
}

// TraceFromJSON reads a trace written by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	var trace Trace
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return trace, nil
}
