package lens

import (
	"fmt"
	"strings"
)

// FilterID identifies one of the built-in filters. The set is closed; the
// zero value is the identity filter.
type FilterID uint8

const (
	FilterIdentity     FilterID = iota // output equals input
	FilterTrail                        // temporal blend with the previous output
	FilterPixelate                     // point-sampled square blocks
	FilterKaleidoscope                 // rotating radial symmetry
	FilterRipple                       // displacement-mapped water ripple
	FilterASCII                        // luminance-to-glyph quantization

	filterCount
)

// ApplyFunc transforms a width x height RGBA frame in place. elapsed is the
// animation time in seconds and st is the filter's carried state, which may be
// nil for stateless filters. Implementations are deterministic for identical
// inputs and treat zero-area frames as a no-op.
type ApplyFunc func(pix []byte, width, height int, elapsed float64, st *FilterState)

// Descriptor is the catalog record for a filter.
type Descriptor struct {
	ID       FilterID
	Key      string // stable lowercase identifier used by the CLI and config
	Name     string // display name
	Apply    ApplyFunc
	Stateful bool // carries a previous frame in FilterState
}

var descriptors = [filterCount]Descriptor{
	{ID: FilterIdentity, Key: "identity", Name: "Normal", Apply: ApplyIdentity},
	{ID: FilterTrail, Key: "trail", Name: "Left the Soul", Apply: ApplyTrail, Stateful: true},
	{ID: FilterPixelate, Key: "pixelate", Name: "Pixelate", Apply: ApplyPixelate},
	{ID: FilterKaleidoscope, Key: "kaleidoscope", Name: "Kaleidoscope", Apply: ApplyKaleidoscope},
	{ID: FilterRipple, Key: "ripple", Name: "Water Ripple", Apply: ApplyRipple},
	{ID: FilterASCII, Key: "ascii", Name: "ASCII Art", Apply: ApplyASCII},
}

// Filters returns the catalog in display order.
func Filters() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Lookup returns the descriptor for id.
func Lookup(id FilterID) (Descriptor, bool) {
	if !id.Valid() {
		return Descriptor{}, false
	}
	return descriptors[id], true
}

// LookupKey finds a filter by key or display name, ignoring case and
// surrounding whitespace.
func LookupKey(key string) (Descriptor, bool) {
	key = strings.TrimSpace(key)
	for _, d := range descriptors {
		if strings.EqualFold(d.Key, key) || strings.EqualFold(d.Name, key) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ParseFilterID is LookupKey returning an error for unknown keys.
func ParseFilterID(key string) (FilterID, error) {
	d, ok := LookupKey(key)
	if !ok {
		return FilterIdentity, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	return d.ID, nil
}

// Valid reports whether id names a registered filter.
func (id FilterID) Valid() bool {
	return id < filterCount
}

// Next returns the filter after id in catalog order, wrapping around.
func (id FilterID) Next() FilterID {
	return (id + 1) % filterCount
}

// Prev returns the filter before id in catalog order, wrapping around.
func (id FilterID) Prev() FilterID {
	return (id + filterCount - 1) % filterCount
}

// String returns the filter key, or a placeholder for unknown ids.
func (id FilterID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("FilterID(%d)", uint8(id))
	}
	return descriptors[id].Key
}
