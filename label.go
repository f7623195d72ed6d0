package labelmesh

import (
	"fmt"

	"github.com/pkg/errors"
)

// Label is the semantic class painted onto a triangle.
type Label uint8

// The label set is closed. The ordinals of the first three values double as
// their region identifiers in the exported label image.
const (
	Unknown Label = iota
	Background
	Ignore
	Body
	PickSurface
	Lead
)

var labelNames = [...]string{
	Unknown:     "unknown",
	Background:  "background",
	Ignore:      "ignore",
	Body:        "body",
	PickSurface: "pick-surface",
	Lead:        "lead",
}

// Labels lists every label in ordinal order.
func Labels() []Label {
	return []Label{Unknown, Background, Ignore, Body, PickSurface, Lead}
}

// String returns the label name used by the toolbar and the export formats.
func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return fmt.Sprintf("label(%d)", uint8(l))
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return int(l) < len(labelNames)
}

// Intrinsic reports whether the label always maps to a fixed region id.
func (l Label) Intrinsic() bool {
	return l == Unknown || l == Background || l == Ignore
}

// ParseLabel converts a label name into a Label.
func ParseLabel(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Unknown, errors.Wrapf(ErrUnknownLabel, "%q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Wrapf(ErrUnknownLabel, "ordinal %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
