package cvt

import (
	"fmt"
	"strings"
)

// Mode selects which rate quantity drives a calculation.
type Mode int

const (
	// ModeByRefreshRate computes the pixel clock from a target refresh rate.
	ModeByRefreshRate Mode = iota
	// ModeByPixelClock infers the refresh rate from a given pixel clock.
	ModeByPixelClock
	// ModeByBoth takes refresh rate and pixel clock together and adjusts the
	// vertical total to reconcile them.
	ModeByBoth
)

func (m Mode) String() string {
	switch m {
	case ModeByRefreshRate:
		return "by-refresh-rate"
	case ModeByPixelClock:
		return "by-pixel-clock"
	case ModeByBoth:
		return "by-both"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Input domains. The calculator rejects anything outside these ranges before
// doing any arithmetic; it never clamps silently.
const (
	MinHActive = 640
	MaxHActive = 7680

	MinVActive = 480
	MaxVActive = 4320

	MinRefreshRate = 24.0
	MaxRefreshRate = 240.0

	MinPixelClock = 10.0
	MaxPixelClock = 1000.0
)

// TimingParameters holds the validated inputs of a calculation together with
// its computed outputs. The calculator takes it by value and returns a new,
// fully populated copy; a returned result is never mutated afterwards.
type TimingParameters struct {
	// Inputs.
	HActive         int
	VActive         int
	RefreshRate     float64 // Hz; driving input in ModeByRefreshRate/ModeByBoth, computed in ModeByPixelClock
	PixelClock      float64 // MHz; driving input in ModeByPixelClock/ModeByBoth, computed in ModeByRefreshRate
	ReducedBlanking bool
	Mode            Mode

	// Outputs, in pixels (horizontal) and lines (vertical).
	HTotal      int
	HBlanking   int
	HFrontPorch int
	HSyncPulse  int
	HBackPorch  int
	VTotal      int
	VBlanking   int
	VFrontPorch int
	VSyncPulse  int
	VBackPorch  int
}

// Validate checks every input against its documented domain and returns a
// *ValidationError naming the offending field, the value given and the
// allowed range.
func (p *TimingParameters) Validate() error {
	if p.HActive < MinHActive || p.HActive > MaxHActive {
		return &ValidationError{Field: "h_active", Value: float64(p.HActive), Min: MinHActive, Max: MaxHActive, Unit: "pixels"}
	}
	if p.VActive < MinVActive || p.VActive > MaxVActive {
		return &ValidationError{Field: "v_active", Value: float64(p.VActive), Min: MinVActive, Max: MaxVActive, Unit: "lines"}
	}
	switch p.Mode {
	case ModeByRefreshRate:
		return p.validateRefreshRate()
	case ModeByPixelClock:
		return p.validatePixelClock()
	case ModeByBoth:
		if err := p.validateRefreshRate(); err != nil {
			return err
		}
		return p.validatePixelClock()
	}
	return fmt.Errorf("unknown calculation mode %d", int(p.Mode))
}

func (p *TimingParameters) validateRefreshRate() error {
	if p.RefreshRate < MinRefreshRate || p.RefreshRate > MaxRefreshRate {
		return &ValidationError{Field: "refresh_rate", Value: p.RefreshRate, Min: MinRefreshRate, Max: MaxRefreshRate, Unit: "Hz"}
	}
	return nil
}

func (p *TimingParameters) validatePixelClock() error {
	if p.PixelClock < MinPixelClock || p.PixelClock > MaxPixelClock {
		return &ValidationError{Field: "pixel_clock", Value: p.PixelClock, Min: MinPixelClock, Max: MaxPixelClock, Unit: "MHz"}
	}
	return nil
}

// Field is one named output value prepared for display or serialization.
type Field struct {
	Name  string // stable machine key
	Label string // human label
	Value string // formatted value, floats with two decimals
	Unit  string // MHz, pixels or lines
	Raw   float64
}

// OrderedFields serializes the computed outputs in the fixed documented
// order: the computed rate quantity first (pixel clock in forward and dual
// mode, refresh rate in reverse mode), then the ten horizontal and vertical
// components. The order and the field set are part of the external contract.
func (p *TimingParameters) OrderedFields() []Field {
	fields := make([]Field, 0, 11)
	if p.Mode == ModeByPixelClock {
		fields = append(fields, Field{
			Name:  "refresh_rate",
			Label: "Refresh Rate",
			Value: fmt.Sprintf("%.2f", p.RefreshRate),
			Unit:  "Hz",
			Raw:   p.RefreshRate,
		})
	} else {
		fields = append(fields, Field{
			Name:  "pixel_clock",
			Label: "Pixel Clock",
			Value: fmt.Sprintf("%.2f", p.PixelClock),
			Unit:  "MHz",
			Raw:   p.PixelClock,
		})
	}
	intField := func(name, label string, v int, unit string) Field {
		return Field{Name: name, Label: label, Value: fmt.Sprintf("%d", v), Unit: unit, Raw: float64(v)}
	}
	fields = append(fields,
		intField("h_total", "Horizontal Total", p.HTotal, "pixels"),
		intField("h_blanking", "Horizontal Blanking", p.HBlanking, "pixels"),
		intField("h_front_porch", "Horizontal Front Porch", p.HFrontPorch, "pixels"),
		intField("h_sync_pulse", "Horizontal Sync Pulse", p.HSyncPulse, "pixels"),
		intField("h_back_porch", "Horizontal Back Porch", p.HBackPorch, "pixels"),
		intField("v_total", "Vertical Total", p.VTotal, "lines"),
		intField("v_blanking", "Vertical Blanking", p.VBlanking, "lines"),
		intField("v_front_porch", "Vertical Front Porch", p.VFrontPorch, "lines"),
		intField("v_sync_pulse", "Vertical Sync Pulse", p.VSyncPulse, "lines"),
		intField("v_back_porch", "Vertical Back Porch", p.VBackPorch, "lines"),
	)
	return fields
}

// FormatText renders the result in the plain text serialization format, one
// "<label>: <value> <unit>" line per field.
func (p *TimingParameters) FormatText() string {
	var b strings.Builder
	for _, f := range p.OrderedFields() {
		fmt.Fprintf(&b, "%s: %s %s\n", f.Label, f.Value, f.Unit)
	}
	return b.String()
}

// checkInvariants verifies the timing sum and sign invariants of a computed
// result. A violation is a calculator defect, reported as *InvariantError.
func (p *TimingParameters) checkInvariants() error {
	if p.HTotal != p.HActive/CellGran*CellGran+p.HBlanking {
		return &InvariantError{Description: fmt.Sprintf("h_total %d != h_active %d + h_blanking %d", p.HTotal, p.HActive/CellGran*CellGran, p.HBlanking)}
	}
	if p.HBlanking != p.HFrontPorch+p.HSyncPulse+p.HBackPorch {
		return &InvariantError{Description: fmt.Sprintf("h_blanking %d != %d + %d + %d", p.HBlanking, p.HFrontPorch, p.HSyncPulse, p.HBackPorch)}
	}
	if p.VTotal != p.VActive+p.VBlanking {
		return &InvariantError{Description: fmt.Sprintf("v_total %d != v_active %d + v_blanking %d", p.VTotal, p.VActive, p.VBlanking)}
	}
	if p.VBlanking != p.VFrontPorch+p.VSyncPulse+p.VBackPorch {
		return &InvariantError{Description: fmt.Sprintf("v_blanking %d != %d + %d + %d", p.VBlanking, p.VFrontPorch, p.VSyncPulse, p.VBackPorch)}
	}
	for _, c := range []struct {
		name  string
		value int
	}{
		{"h_total", p.HTotal},
		{"h_blanking", p.HBlanking},
		{"h_front_porch", p.HFrontPorch},
		{"h_sync_pulse", p.HSyncPulse},
		{"h_back_porch", p.HBackPorch},
		{"v_total", p.VTotal},
		{"v_blanking", p.VBlanking},
		{"v_front_porch", p.VFrontPorch},
		{"v_sync_pulse", p.VSyncPulse},
		{"v_back_porch", p.VBackPorch},
	} {
		if c.value < 0 {
			return &InvariantError{Description: fmt.Sprintf("%s is negative (%d)", c.name, c.value)}
		}
	}
	if p.PixelClock <= 0 {
		return &InvariantError{Description: fmt.Sprintf("pixel_clock is not positive (%g)", p.PixelClock)}
	}
	return nil
}
