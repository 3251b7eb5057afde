// Package export writes computed timing results as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
)

// Format selects an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Write encodes a timing result in the given format.
func Write(w io.Writer, format Format, p *cvt.TimingParameters) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, p)
	case FormatJSON:
		return WriteJSON(w, p)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV exports a timing result to CSV format, one parameter per row
func WriteCSV(w io.Writer, p *cvt.TimingParameters) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	headers := []string{"Parameter", "Value", "Unit"}
	if err := csvWriter.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, field := range p.OrderedFields() {
		row := []string{field.Label, field.Value, field.Unit}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// jsonExport is the JSON export structure
type jsonExport struct {
	HActive         int     `json:"h_active"`
	VActive         int     `json:"v_active"`
	RefreshRate     float64 `json:"refresh_rate"`
	PixelClock      float64 `json:"pixel_clock"`
	ReducedBlanking bool    `json:"reduced_blanking"`

	HTotal      int `json:"h_total"`
	HBlanking   int `json:"h_blanking"`
	HFrontPorch int `json:"h_front_porch"`
	HSyncPulse  int `json:"h_sync_pulse"`
	HBackPorch  int `json:"h_back_porch"`

	VTotal      int `json:"v_total"`
	VBlanking   int `json:"v_blanking"`
	VFrontPorch int `json:"v_front_porch"`
	VSyncPulse  int `json:"v_sync_pulse"`
	VBackPorch  int `json:"v_back_porch"`
}

// WriteJSON exports a timing result to indented JSON
func WriteJSON(w io.Writer, p *cvt.TimingParameters) error {
	out := jsonExport{
		HActive:         p.HActive,
		VActive:         p.VActive,
		RefreshRate:     p.RefreshRate,
		PixelClock:      p.PixelClock,
		ReducedBlanking: p.ReducedBlanking,

		HTotal:      p.HTotal,
		HBlanking:   p.HBlanking,
		HFrontPorch: p.HFrontPorch,
		HSyncPulse:  p.HSyncPulse,
		HBackPorch:  p.HBackPorch,

		VTotal:      p.VTotal,
		VBlanking:   p.VBlanking,
		VFrontPorch: p.VFrontPorch,
		VSyncPulse:  p.VSyncPulse,
		VBackPorch:  p.VBackPorch,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or json)", s)
	}
}
