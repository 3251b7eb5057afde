package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
)

func fullHD() *cvt.TimingParameters {
	return &cvt.TimingParameters{
		HActive: 1920, VActive: 1080, RefreshRate: 60, Mode: cvt.ModeByRefreshRate,
		PixelClock: 173.00,
		HTotal:     2576, HBlanking: 656, HFrontPorch: 120, HSyncPulse: 208, HBackPorch: 328,
		VTotal: 1120, VBlanking: 40, VFrontPorch: 3, VSyncPulse: 5, VBackPorch: 32,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fullHD()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 12, "header plus eleven parameter rows")

	assert.Equal(t, []string{"Parameter", "Value", "Unit"}, records[0])
	assert.Equal(t, []string{"Pixel Clock", "173.00", "MHz"}, records[1])
	assert.Equal(t, []string{"Horizontal Total", "2576", "pixels"}, records[2])
	assert.Equal(t, []string{"Vertical Back Porch", "32", "lines"}, records[11])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fullHD()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, float64(1920), got["h_active"])
	assert.Equal(t, float64(2576), got["h_total"])
	assert.Equal(t, float64(1120), got["v_total"])
	assert.Equal(t, 173.00, got["pixel_clock"])
	assert.Equal(t, false, got["reduced_blanking"])
	assert.Len(t, got, 15)

	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \""), "output must be indented")
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, fullHD()))
	assert.Contains(t, buf.String(), "Parameter,Value,Unit")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, fullHD()))
	assert.Contains(t, buf.String(), `"pixel_clock"`)

	err := Write(&buf, Format("xml"), fullHD())
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
