package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all known ability and effect definitions.
// It is built once at startup and read-only afterwards, so it is safe for
// concurrent use without locking.
type Registry struct {
	abilities       map[string]*AbilityDef
	abilitiesByName map[string]*AbilityDef
	effects         map[string]*EffectDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		abilities:       make(map[string]*AbilityDef),
		abilitiesByName: make(map[string]*AbilityDef),
		effects:         make(map[string]*EffectDef),
	}
}

// RegisterAbility adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and must be valid.
func (r *Registry) RegisterAbility(def *AbilityDef) {
	r.abilities[def.ID] = def
	r.abilitiesByName[strings.ToLower(def.Name)] = def
}

// RegisterEffect adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and must be valid.
func (r *Registry) RegisterEffect(def *EffectDef) {
	r.effects[def.ID] = def
}

// AbilityByID returns the ability for id, or (nil, false) if not found.
func (r *Registry) AbilityByID(id string) (*AbilityDef, bool) {
	d, ok := r.abilities[id]
	return d, ok
}

// AbilityByName returns the ability whose display name matches name,
// case-insensitively, or (nil, false) if not found.
func (r *Registry) AbilityByName(name string) (*AbilityDef, bool) {
	d, ok := r.abilitiesByName[strings.ToLower(name)]
	return d, ok
}

// EffectByID returns the effect for id, or (nil, false) if not found.
func (r *Registry) EffectByID(id string) (*EffectDef, bool) {
	d, ok := r.effects[id]
	return d, ok
}

// Abilities returns all registered abilities available in universeID,
// or every ability when universeID is empty.
func (r *Registry) Abilities(universeID string) []*AbilityDef {
	out := make([]*AbilityDef, 0, len(r.abilities))
	for _, d := range r.abilities {
		if universeID == "" || d.AvailableIn(universeID) {
			out = append(out, d)
		}
	}
	return out
}

// LoadDirectories reads every *.yaml file in abilitiesDir and effectsDir,
// parses each as a single definition with strict field checking, validates
// it, and returns a populated Registry. Every effect id referenced by an
// ability must resolve.
//
// Precondition: both directories must be readable.
// Postcondition: Returns a non-nil Registry, or an error naming the first
// file that failed to parse or validate.
func LoadDirectories(abilitiesDir, effectsDir string) (*Registry, error) {
	reg := NewRegistry()

	if err := loadYAMLDir(effectsDir, func(data []byte, path string) error {
		var def EffectDef
		if err := strictDecode(data, &def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		reg.RegisterEffect(&def)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadYAMLDir(abilitiesDir, func(data []byte, path string) error {
		var def AbilityDef
		if err := strictDecode(data, &def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		reg.RegisterAbility(&def)
		return nil
	}); err != nil {
		return nil, err
	}

	for _, a := range reg.abilities {
		for _, list := range [][]string{a.AttackEffects, a.AbilityEffects} {
			// A failed check stops the whole invocation, so any effect
			// sequenced before a check would silently never fire on
			// failure. Requiring checks to lead keeps that unreachable.
			applied := false
			for _, id := range list {
				def, ok := reg.effects[id]
				if !ok {
					return nil, fmt.Errorf("ability %q references unknown effect %q", a.ID, id)
				}
				if def.Kind == KindCheck {
					if applied {
						return nil, fmt.Errorf("ability %q: check effect %q must precede all other effects", a.ID, id)
					}
					continue
				}
				applied = true
			}
		}
	}

	return reg, nil
}

func loadYAMLDir(dir string, load func(data []byte, path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading catalog dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := load(data, path); err != nil {
			return err
		}
	}
	return nil
}

func strictDecode(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
