// Package preset provides named display mode presets for the timing
// calculator. The built-in set covers the common desktop resolutions; more
// presets can be registered at runtime.
package preset

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
)

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a named display mode
type Preset struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	HActive         int     `yaml:"h_active"`
	VActive         int     `yaml:"v_active"`
	RefreshRate     float64 `yaml:"refresh_rate"`
	ReducedBlanking bool    `yaml:"reduced_blanking"`
}

// Parameters converts the preset into calculator input.
func (p Preset) Parameters() cvt.TimingParameters {
	return cvt.TimingParameters{
		HActive:         p.HActive,
		VActive:         p.VActive,
		RefreshRate:     p.RefreshRate,
		ReducedBlanking: p.ReducedBlanking,
		Mode:            cvt.ModeByRefreshRate,
	}
}

// Registry manages named presets
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// globalRegistry is the default preset registry, seeded with the built-in set
var globalRegistry = NewRegistry()

func init() {
	var file struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(builtinPresets, &file); err != nil {
		panic(fmt.Sprintf("preset: built-in presets are malformed: %v", err))
	}
	for _, p := range file.Presets {
		if err := globalRegistry.Register(p); err != nil {
			panic(fmt.Sprintf("preset: built-in preset %q: %v", p.Name, err))
		}
	}
}

// Register adds a preset to the global registry
func Register(p Preset) error {
	return globalRegistry.Register(p)
}

// Get retrieves a preset from the global registry
func Get(name string) (Preset, error) {
	return globalRegistry.Get(name)
}

// List returns all registered preset names
func List() []string {
	return globalRegistry.List()
}

// GetAll returns all presets from the global registry
func GetAll() []Preset {
	return globalRegistry.GetAll()
}

// NewRegistry creates an empty preset registry
func NewRegistry() *Registry {
	return &Registry{
		presets: make(map[string]Preset),
	}
}

// Register adds a preset to the registry
func (r *Registry) Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	params := p.Parameters()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.presets[p.Name]; exists {
		return fmt.Errorf("preset %q already registered", p.Name)
	}

	r.presets[p.Name] = p
	return nil
}

// Get retrieves a preset by name
func (r *Registry) Get(name string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.presets[name]
	if !exists {
		return Preset{}, fmt.Errorf("preset %q not found", name)
	}

	return p, nil
}

// List returns all registered preset names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// GetAll returns all registered presets sorted by name
func (r *Registry) GetAll() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	presets := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})
	return presets
}
