// Package catalog loads room template libraries and spawns rooms from them.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zyedidia/generic/mapset"

	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
)

// ErrInvalidTemplate is returned when a library contains a malformed template.
var ErrInvalidTemplate = errors.New("catalog: invalid room template")

// Direction is a horizontal direction in a library file.
type Direction struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// TemplateDef is the on-disk form of a room template.
type TemplateDef struct {
	Name        string                `json:"name"`        // Template identifier
	Description string                `json:"description"` // Optional description
	Sockets     map[string]*Direction `json:"sockets"`     // Exit name -> local outward direction (null = canonical)
}

// Library is a named set of room templates.
type Library struct {
	Name string         `json:"name"`
	Defs []*TemplateDef `json:"templates"`

	resolved []*mapgen.RoomTemplate
}

// Load decodes and validates a library from r.
func Load(r io.Reader) (*Library, error) {
	var lib Library
	if err := json.NewDecoder(r).Decode(&lib); err != nil {
		return nil, fmt.Errorf("failed to decode room library: %w", err)
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// LoadFile loads a library from a JSON file.
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open room library: %w", err)
	}
	defer f.Close()

	lib, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Validate checks every template and resolves the library for use.
func (l *Library) Validate() error {
	names := mapset.New[string]()
	resolved := make([]*mapgen.RoomTemplate, 0, len(l.Defs))

	for i, def := range l.Defs {
		if def == nil || def.Name == "" {
			return fmt.Errorf("%w: template %d has no name", ErrInvalidTemplate, i)
		}
		if names.Has(def.Name) {
			return fmt.Errorf("%w: duplicate template name %q", ErrInvalidTemplate, def.Name)
		}
		names.Put(def.Name)

		tpl, err := def.resolve()
		if err != nil {
			return err
		}
		resolved = append(resolved, tpl)
	}

	l.resolved = resolved
	return nil
}

func (d *TemplateDef) resolve() (*mapgen.RoomTemplate, error) {
	tpl := &mapgen.RoomTemplate{
		Name:    d.Name,
		Sockets: make(map[mapgen.SocketName]geom.Vec3, len(d.Sockets)),
	}

	for raw, dir := range d.Sockets {
		name := mapgen.SocketName(raw)
		if !name.Valid() {
			return nil, fmt.Errorf("%w: %q has unknown socket %q", ErrInvalidTemplate, d.Name, raw)
		}

		// A socket listed without a direction points the usual way.
		v := name.CanonicalDirection()
		if dir != nil {
			v = geom.Vec3{X: dir.X, Z: dir.Z}
		}
		if v.IsZero() {
			return nil, fmt.Errorf("%w: %q socket %q has no direction", ErrInvalidTemplate, d.Name, raw)
		}
		tpl.Sockets[name] = v
	}
	return tpl, nil
}

// Templates returns the resolved templates. It implements mapgen.Catalog.
func (l *Library) Templates() []*mapgen.RoomTemplate {
	return l.resolved
}

// Names returns the template names in library order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.resolved))
	for _, t := range l.resolved {
		names = append(names, t.Name)
	}
	return names
}
