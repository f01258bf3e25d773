package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// WeightSumTolerance is the allowed deviation of a weight sum from 1.0
const WeightSumTolerance = 1e-4

// ProfileWeights holds the per-axis weights of the overall score
type ProfileWeights struct {
	Performance float64 `json:"performance" yaml:"performance"`
	Energy      float64 `json:"energy" yaml:"energy"`
	Cost        float64 `json:"cost" yaml:"cost"`
}

// NewProfileWeights validates and creates profile weights.
// Each weight must lie in [0, 1] and the sum must be 1 within WeightSumTolerance.
func NewProfileWeights(performance, energy, cost float64) (ProfileWeights, error) {
	w := ProfileWeights{Performance: performance, Energy: energy, Cost: cost}
	axes := []struct {
		name  string
		value float64
	}{
		{"performance", performance},
		{"energy", energy},
		{"cost", cost},
	}
	for _, a := range axes {
		if math.IsNaN(a.value) || a.value < 0 || a.value > 1 {
			return ProfileWeights{}, NewValidationError(fmt.Sprintf("%s weight must be in [0, 1], got %v", a.name, a.value))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return ProfileWeights{}, NewValidationError(fmt.Sprintf("profile weights must sum to 1.0, got %v", sum))
	}
	return w, nil
}

// MustProfileWeights is like NewProfileWeights but panics on invalid input.
// It is meant for compile-time presets only.
func MustProfileWeights(performance, energy, cost float64) ProfileWeights {
	w, err := NewProfileWeights(performance, energy, cost)
	if err != nil {
		panic(err)
	}
	return w
}

// Sum returns the sum of all weights
func (w ProfileWeights) Sum() float64 {
	return w.Performance + w.Energy + w.Cost
}

// ProfileKind identifies an industry profile case
type ProfileKind string

const (
	ProfileWebServices ProfileKind = "web_services"
	ProfileIotEmbedded ProfileKind = "iot_embedded"
	ProfileFinancial   ProfileKind = "financial"
	ProfileGaming      ProfileKind = "gaming"
	ProfileEnterprise  ProfileKind = "enterprise"
	ProfileCustom      ProfileKind = "custom"
)

// presetWeights maps each named preset to its weights
var presetWeights = map[ProfileKind]ProfileWeights{
	ProfileWebServices: MustProfileWeights(0.4, 0.3, 0.3),
	ProfileIotEmbedded: MustProfileWeights(0.2, 0.6, 0.2),
	ProfileFinancial:   MustProfileWeights(0.5, 0.2, 0.3),
	ProfileGaming:      MustProfileWeights(0.6, 0.2, 0.2),
	ProfileEnterprise:  MustProfileWeights(0.3, 0.3, 0.4),
}

// PresetProfileKinds lists the named presets in display order
func PresetProfileKinds() []ProfileKind {
	return []ProfileKind{
		ProfileWebServices,
		ProfileIotEmbedded,
		ProfileFinancial,
		ProfileGaming,
		ProfileEnterprise,
	}
}

// IndustryProfile is either a named preset or a custom set of weights.
// custom is only meaningful for the ProfileCustom case.
type IndustryProfile struct {
	Kind   ProfileKind
	custom ProfileWeights
}

// PresetProfile returns the named preset profile
func PresetProfile(kind ProfileKind) (IndustryProfile, error) {
	if _, ok := presetWeights[kind]; !ok {
		return IndustryProfile{}, NewInvalidInputError(fmt.Sprintf("unknown industry profile: %s", kind), nil)
	}
	return IndustryProfile{Kind: kind}, nil
}

// CustomProfile returns a profile carrying explicit weights.
// The weights are validated here, once.
func CustomProfile(performance, energy, cost float64) (IndustryProfile, error) {
	w, err := NewProfileWeights(performance, energy, cost)
	if err != nil {
		return IndustryProfile{}, err
	}
	return IndustryProfile{Kind: ProfileCustom, custom: w}, nil
}

// DefaultIndustryProfile returns the WebServices preset
func DefaultIndustryProfile() IndustryProfile {
	return IndustryProfile{Kind: ProfileWebServices}
}

// Weights resolves the profile to its weights. A custom profile not built by
// CustomProfile carries no weights and resolves to the WebServices preset.
func (p IndustryProfile) Weights() ProfileWeights {
	if p.Kind == ProfileCustom && p.custom.Sum() > 0 {
		return p.custom
	}
	if w, ok := presetWeights[p.Kind]; ok {
		return w
	}
	return presetWeights[ProfileWebServices]
}

// String returns the display name of the profile
func (p IndustryProfile) String() string {
	switch p.Kind {
	case ProfileWebServices:
		return "WebServices"
	case ProfileIotEmbedded:
		return "IotEmbedded"
	case ProfileFinancial:
		return "Financial"
	case ProfileGaming:
		return "Gaming"
	case ProfileEnterprise:
		return "Enterprise"
	case ProfileCustom:
		w := p.custom
		return fmt.Sprintf("Custom(%.2f/%.2f/%.2f)", w.Performance, w.Energy, w.Cost)
	default:
		return string(p.Kind)
	}
}

// ParseIndustryProfile parses a preset name. Accepts the snake_case kind,
// the display name, and a few short aliases.
func ParseIndustryProfile(name string) (IndustryProfile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "", "web_services", "webservices", "web":
		return IndustryProfile{Kind: ProfileWebServices}, nil
	case "iot_embedded", "iotembedded", "iot", "embedded":
		return IndustryProfile{Kind: ProfileIotEmbedded}, nil
	case "financial", "finance":
		return IndustryProfile{Kind: ProfileFinancial}, nil
	case "gaming", "games":
		return IndustryProfile{Kind: ProfileGaming}, nil
	case "enterprise":
		return IndustryProfile{Kind: ProfileEnterprise}, nil
	case "custom":
		return IndustryProfile{}, NewInvalidInputError("custom profile requires explicit weights", nil)
	default:
		return IndustryProfile{}, NewInvalidInputError(fmt.Sprintf("unknown industry profile: %s", name), nil)
	}
}

type profileJSON struct {
	Kind    ProfileKind     `json:"kind" yaml:"kind"`
	Weights *ProfileWeights `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// MarshalJSON encodes presets as {"kind": ...} and custom profiles with their weights
func (p IndustryProfile) MarshalJSON() ([]byte, error) {
	out := profileJSON{Kind: p.Kind}
	if p.Kind == ProfileCustom {
		w := p.Weights()
		out.Weights = &w
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a profile, re-validating custom weights
func (p *IndustryProfile) UnmarshalJSON(data []byte) error {
	var in profileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Kind == ProfileCustom {
		if in.Weights == nil {
			return NewValidationError("custom profile is missing weights")
		}
		prof, err := CustomProfile(in.Weights.Performance, in.Weights.Energy, in.Weights.Cost)
		if err != nil {
			return err
		}
		*p = prof
		return nil
	}
	prof, err := PresetProfile(in.Kind)
	if err != nil {
		return err
	}
	*p = prof
	return nil
}

// MarshalYAML encodes the profile the same way as JSON
func (p IndustryProfile) MarshalYAML() (interface{}, error) {
	out := profileJSON{Kind: p.Kind}
	if p.Kind == ProfileCustom {
		w := p.Weights()
		out.Weights = &w
	}
	return out, nil
}
