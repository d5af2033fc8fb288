package models

import "fmt"

// RelationshipType is the kind of musical relationship between two songs.
type RelationshipType int

// Known relationship types. Unknown is the zero value.
const (
	Unknown RelationshipType = iota
	Samples
	SampledIn
	Interpolates
	InterpolatedBy
	CoverOf
	CoveredBy
	RemixOf
	RemixedBy
	LiveVersionOf
	PerformedLiveAs
	TranslationOf
	Translations
)

var relationshipNames = [...]string{
	Unknown:         "unknown",
	Samples:         "samples",
	SampledIn:       "sampled_in",
	Interpolates:    "interpolates",
	InterpolatedBy:  "interpolated_by",
	CoverOf:         "cover_of",
	CoveredBy:       "covered_by",
	RemixOf:         "remix_of",
	RemixedBy:       "remixed_by",
	LiveVersionOf:   "live_version_of",
	PerformedLiveAs: "performed_live_as",
	TranslationOf:   "translation_of",
	Translations:    "translations",
}

var relationshipByName = func() map[string]RelationshipType {
	m := make(map[string]RelationshipType, len(relationshipNames))
	for t, name := range relationshipNames {
		m[name] = RelationshipType(t)
	}

	return m
}()

var relationshipInverse = map[RelationshipType]RelationshipType{
	Unknown:         Unknown,
	Samples:         SampledIn,
	SampledIn:       Samples,
	Interpolates:    InterpolatedBy,
	InterpolatedBy:  Interpolates,
	CoverOf:         CoveredBy,
	CoveredBy:       CoverOf,
	RemixOf:         RemixedBy,
	RemixedBy:       RemixOf,
	LiveVersionOf:   PerformedLiveAs,
	PerformedLiveAs: LiveVersionOf,
	TranslationOf:   Translations,
	Translations:    TranslationOf,
}

// AllRelationshipTypes lists every relationship type, Unknown first.
func AllRelationshipTypes() []RelationshipType {
	all := make([]RelationshipType, len(relationshipNames))
	for i := range relationshipNames {
		all[i] = RelationshipType(i)
	}

	return all
}

// ParseRelationshipType maps an upstream relationship string onto a
// RelationshipType. Unrecognized strings map to Unknown.
func ParseRelationshipType(s string) RelationshipType {
	if t, ok := relationshipByName[s]; ok {
		return t
	}

	return Unknown
}

// String returns the canonical snake_case name.
func (t RelationshipType) String() string {
	if t < 0 || int(t) >= len(relationshipNames) {
		return relationshipNames[Unknown]
	}

	return relationshipNames[t]
}

// IsRelevant reports whether the relationship kind is surfaced by the API.
func (t RelationshipType) IsRelevant() bool {
	switch t {
	case Samples, SampledIn, Interpolates, InterpolatedBy:
		return true
	default:
		return false
	}
}

// Invert returns the relationship seen from the other song's side.
func (t RelationshipType) Invert() RelationshipType {
	if inv, ok := relationshipInverse[t]; ok {
		return inv
	}

	return Unknown
}

// MarshalText implements encoding.TextMarshaler.
func (t RelationshipType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Like ParseRelationshipType
// it never fails on unrecognized input.
func (t *RelationshipType) UnmarshalText(text []byte) error {
	if t == nil {
		return fmt.Errorf("unmarshal relationship type into nil pointer")
	}

	*t = ParseRelationshipType(string(text))

	return nil
}
