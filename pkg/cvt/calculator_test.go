package cvt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardCVTReferenceModes(t *testing.T) {
	tests := []struct {
		name    string
		hActive int
		vActive int
		refresh float64
		want    TimingParameters
	}{
		{
			name:    "1920x1080@60",
			hActive: 1920,
			vActive: 1080,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 173.00,
				HTotal:     2576, HBlanking: 656, HFrontPorch: 120, HSyncPulse: 208, HBackPorch: 328,
				VTotal: 1120, VBlanking: 40, VFrontPorch: 3, VSyncPulse: 5, VBackPorch: 32,
			},
		},
		{
			name:    "1280x720@60",
			hActive: 1280,
			vActive: 720,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 74.50,
				HTotal:     1664, HBlanking: 384, HFrontPorch: 60, HSyncPulse: 132, HBackPorch: 192,
				VTotal: 748, VBlanking: 28, VFrontPorch: 3, VSyncPulse: 5, VBackPorch: 20,
			},
		},
		{
			name:    "2560x1440@60",
			hActive: 2560,
			vActive: 1440,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 312.25,
				HTotal:     3488, HBlanking: 928, HFrontPorch: 184, HSyncPulse: 280, HBackPorch: 464,
				VTotal: 1493, VBlanking: 53, VFrontPorch: 3, VSyncPulse: 5, VBackPorch: 45,
			},
		},
		{
			name:    "3840x2160@60",
			hActive: 3840,
			vActive: 2160,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 712.75,
				HTotal:     5312, VTotal: 2237,
				HBlanking: 1472, HFrontPorch: 312, HSyncPulse: 424, HBackPorch: 736,
				VBlanking: 77, VFrontPorch: 3, VSyncPulse: 5, VBackPorch: 69,
			},
		},
		{
			name:    "1920x1200@60 is 16:10",
			hActive: 1920,
			vActive: 1200,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 193.50,
				HTotal:     2592, HBlanking: 672, HFrontPorch: 128, HSyncPulse: 208, HBackPorch: 336,
				VTotal: 1245, VBlanking: 45, VFrontPorch: 3, VSyncPulse: 6, VBackPorch: 36,
			},
		},
		{
			name:    "640x480@60 hits the duty cycle floor",
			hActive: 640,
			vActive: 480,
			refresh: 60.0,
			want: TimingParameters{
				PixelClock: 24.00,
				HTotal:     800, HBlanking: 160, HFrontPorch: 16, HSyncPulse: 64, HBackPorch: 80,
				VTotal: 500, VBlanking: 20, VFrontPorch: 3, VSyncPulse: 4, VBackPorch: 13,
			},
		},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(TimingParameters{
				HActive:     tt.hActive,
				VActive:     tt.vActive,
				RefreshRate: tt.refresh,
				Mode:        ModeByRefreshRate,
			})
			require.NoError(t, err)

			assert.InDelta(t, tt.want.PixelClock, got.PixelClock, 1e-9, "pixel clock")
			assert.Equal(t, tt.want.HTotal, got.HTotal, "h_total")
			assert.Equal(t, tt.want.HBlanking, got.HBlanking, "h_blanking")
			assert.Equal(t, tt.want.HFrontPorch, got.HFrontPorch, "h_front_porch")
			assert.Equal(t, tt.want.HSyncPulse, got.HSyncPulse, "h_sync_pulse")
			assert.Equal(t, tt.want.HBackPorch, got.HBackPorch, "h_back_porch")
			assert.Equal(t, tt.want.VTotal, got.VTotal, "v_total")
			assert.Equal(t, tt.want.VBlanking, got.VBlanking, "v_blanking")
			assert.Equal(t, tt.want.VFrontPorch, got.VFrontPorch, "v_front_porch")
			assert.Equal(t, tt.want.VSyncPulse, got.VSyncPulse, "v_sync_pulse")
			assert.Equal(t, tt.want.VBackPorch, got.VBackPorch, "v_back_porch")
		})
	}
}

func TestReducedBlankingReferenceModes(t *testing.T) {
	calc := NewCalculator()

	t.Run("1920x1080@60", func(t *testing.T) {
		got, err := calc.Calculate(TimingParameters{
			HActive: 1920, VActive: 1080, RefreshRate: 60.0,
			ReducedBlanking: true, Mode: ModeByRefreshRate,
		})
		require.NoError(t, err)

		assert.InDelta(t, 138.50, got.PixelClock, 1e-9)
		assert.Equal(t, 2080, got.HTotal)
		assert.Equal(t, 1111, got.VTotal)
		assert.Equal(t, 48, got.HFrontPorch)
		assert.Equal(t, 32, got.HSyncPulse)
		assert.Equal(t, 80, got.HBackPorch)
		assert.Equal(t, 3, got.VFrontPorch)
		assert.Equal(t, 8, got.VSyncPulse)
		assert.Equal(t, 20, got.VBackPorch)
	})

	t.Run("3840x2160@60", func(t *testing.T) {
		got, err := calc.Calculate(TimingParameters{
			HActive: 3840, VActive: 2160, RefreshRate: 60.0,
			ReducedBlanking: true, Mode: ModeByRefreshRate,
		})
		require.NoError(t, err)

		assert.Equal(t, 4000, got.HTotal)
		assert.Equal(t, 2221, got.VTotal)
		assert.Equal(t, 48, got.HFrontPorch)
		assert.Equal(t, 32, got.HSyncPulse)
		assert.Equal(t, 80, got.HBackPorch)
		assert.Equal(t, 3, got.VFrontPorch)
		assert.Equal(t, 8, got.VSyncPulse)
		assert.Equal(t, 50, got.VBackPorch)
	})
}

// The fixed 160 pixel horizontal blanking must always undercut the standard
// variant's blanking for the same mode.
func TestReducedBlankingIsSmaller(t *testing.T) {
	calc := NewCalculator()
	modes := []struct {
		hActive, vActive int
		refresh          float64
	}{
		{1280, 720, 60}, {1920, 1080, 60}, {1920, 1200, 60},
		{2560, 1440, 60}, {3840, 2160, 60}, {1920, 1080, 120}, {800, 600, 75},
	}
	for _, m := range modes {
		std, err := calc.Calculate(TimingParameters{
			HActive: m.hActive, VActive: m.vActive, RefreshRate: m.refresh, Mode: ModeByRefreshRate,
		})
		require.NoError(t, err)
		rb, err := calc.Calculate(TimingParameters{
			HActive: m.hActive, VActive: m.vActive, RefreshRate: m.refresh,
			ReducedBlanking: true, Mode: ModeByRefreshRate,
		})
		require.NoError(t, err)

		assert.Less(t, rb.HBlanking+rb.VBlanking, std.HBlanking+std.VBlanking,
			"%dx%d@%g", m.hActive, m.vActive, m.refresh)
		assert.Less(t, rb.PixelClock, std.PixelClock,
			"%dx%d@%g", m.hActive, m.vActive, m.refresh)
	}
}

func TestSumInvariantsHold(t *testing.T) {
	calc := NewCalculator()
	for _, hActive := range []int{640, 1024, 1366, 1920, 2560, 3840, 7680} {
		for _, vActive := range []int{480, 768, 1080, 1440, 2160, 4320} {
			for _, refresh := range []float64{24, 30, 59.94, 60, 75, 120, 240} {
				for _, rb := range []bool{false, true} {
					got, err := calc.Calculate(TimingParameters{
						HActive: hActive, VActive: vActive, RefreshRate: refresh,
						ReducedBlanking: rb, Mode: ModeByRefreshRate,
					})
					require.NoError(t, err, "%dx%d@%g rb=%v", hActive, vActive, refresh, rb)

					assert.Equal(t, got.HTotal, got.HActive/CellGran*CellGran+got.HBlanking)
					assert.Equal(t, got.HBlanking, got.HFrontPorch+got.HSyncPulse+got.HBackPorch)
					assert.Equal(t, got.VTotal, got.VActive+got.VBlanking)
					assert.Equal(t, got.VBlanking, got.VFrontPorch+got.VSyncPulse+got.VBackPorch)
					assert.Positive(t, got.PixelClock)
				}
			}
		}
	}
}

func TestReverseFromPixelClock(t *testing.T) {
	calc := NewCalculator()

	t.Run("standard 1920x1080 at 173 MHz", func(t *testing.T) {
		got, err := calc.Calculate(TimingParameters{
			HActive: 1920, VActive: 1080, PixelClock: 173.00, Mode: ModeByPixelClock,
		})
		require.NoError(t, err)

		assert.Equal(t, 2576, got.HTotal)
		assert.Equal(t, 1120, got.VTotal)
		assert.InDelta(t, 173.00, got.PixelClock, 1e-9)
		assert.InDelta(t, 59.963, got.RefreshRate, 0.01)
	})

	t.Run("reduced blanking 1920x1080 at 138.5 MHz", func(t *testing.T) {
		got, err := calc.Calculate(TimingParameters{
			HActive: 1920, VActive: 1080, PixelClock: 138.50,
			ReducedBlanking: true, Mode: ModeByPixelClock,
		})
		require.NoError(t, err)

		assert.Equal(t, 2080, got.HTotal)
		assert.Equal(t, 1111, got.VTotal)
		assert.InDelta(t, 59.93, got.RefreshRate, 0.01)
	})

	t.Run("degenerate clock for the resolution", func(t *testing.T) {
		// 1000 MHz into 640x480 needs a refresh rate whose frame time is
		// shorter than the minimum vertical blanking interval.
		_, err := calc.Calculate(TimingParameters{
			HActive: 640, VActive: 480, PixelClock: 1000.0, Mode: ModeByPixelClock,
		})
		var arithErr *ArithmeticError
		require.ErrorAs(t, err, &arithErr)
	})
}

// Feeding a forward result's pixel clock back through reverse mode must
// reproduce the refresh rate within 0.5%.
func TestForwardReverseRoundTrip(t *testing.T) {
	calc := NewCalculator()
	modes := []struct {
		hActive, vActive int
		refresh          float64
		rb               bool
	}{
		{1280, 720, 60, false}, {1920, 1080, 60, false}, {2560, 1440, 60, false},
		{1920, 1200, 60, false}, {3840, 2160, 30, false},
		{1280, 720, 60, true}, {1920, 1080, 60, true}, {3840, 2160, 60, true},
		{2560, 1440, 120, true},
	}
	for _, m := range modes {
		fwd, err := calc.Calculate(TimingParameters{
			HActive: m.hActive, VActive: m.vActive, RefreshRate: m.refresh,
			ReducedBlanking: m.rb, Mode: ModeByRefreshRate,
		})
		require.NoError(t, err)

		rev, err := calc.Calculate(TimingParameters{
			HActive: m.hActive, VActive: m.vActive, PixelClock: fwd.PixelClock,
			ReducedBlanking: m.rb, Mode: ModeByPixelClock,
		})
		require.NoError(t, err, "%dx%d@%g rb=%v", m.hActive, m.vActive, m.refresh, m.rb)

		relErr := math.Abs(rev.RefreshRate-m.refresh) / m.refresh
		assert.Less(t, relErr, 0.005, "%dx%d@%g rb=%v: got %.4f Hz",
			m.hActive, m.vActive, m.refresh, m.rb, rev.RefreshRate)
	}
}

func TestDualParameterMode(t *testing.T) {
	calc := NewCalculator()

	t.Run("consistent pair keeps the forward totals", func(t *testing.T) {
		// 2576 x 1120 x 60 Hz is exactly 173.1072 MHz.
		got, err := calc.Calculate(TimingParameters{
			HActive: 1920, VActive: 1080,
			RefreshRate: 60.0, PixelClock: 173.1072, Mode: ModeByBoth,
		})
		require.NoError(t, err)

		assert.Equal(t, 2576, got.HTotal)
		assert.Equal(t, 1120, got.VTotal)
		assert.InDelta(t, 60.0, got.RefreshRate, 1e-9)
		assert.InDelta(t, 173.1072, got.PixelClock, 1e-9)
	})

	t.Run("low clock clamps to the minimum vertical blanking", func(t *testing.T) {
		got, err := calc.Calculate(TimingParameters{
			HActive: 1920, VActive: 1080,
			RefreshRate: 60.0, PixelClock: 148.5, Mode: ModeByBoth,
		})
		require.NoError(t, err)

		// 148.5 MHz at 60 Hz wants fewer total lines than the active region;
		// the vertical blanking bottoms out at front porch + sync + 1.
		assert.Equal(t, 1089, got.VTotal)
		assert.Equal(t, 1, got.VBackPorch)
		assert.InDelta(t, 148.5, got.PixelClock, 1e-9)
		assert.InDelta(t, 60.0, got.RefreshRate, 1e-9)
	})
}

func TestCalculateValidation(t *testing.T) {
	calc := NewCalculator()
	tests := []struct {
		name      string
		params    TimingParameters
		wantField string
	}{
		{
			name:      "h_active below range",
			params:    TimingParameters{HActive: 639, VActive: 480, RefreshRate: 60, Mode: ModeByRefreshRate},
			wantField: "h_active",
		},
		{
			name:      "h_active above range",
			params:    TimingParameters{HActive: 7688, VActive: 4320, RefreshRate: 60, Mode: ModeByRefreshRate},
			wantField: "h_active",
		},
		{
			name:      "v_active below range",
			params:    TimingParameters{HActive: 640, VActive: 479, RefreshRate: 60, Mode: ModeByRefreshRate},
			wantField: "v_active",
		},
		{
			name:      "zero resolution",
			params:    TimingParameters{HActive: 0, VActive: 0, RefreshRate: 60, Mode: ModeByRefreshRate},
			wantField: "h_active",
		},
		{
			name:      "refresh rate above range",
			params:    TimingParameters{HActive: 1920, VActive: 1080, RefreshRate: 300, Mode: ModeByRefreshRate},
			wantField: "refresh_rate",
		},
		{
			name:      "refresh rate below range",
			params:    TimingParameters{HActive: 1920, VActive: 1080, RefreshRate: 23.9, Mode: ModeByRefreshRate},
			wantField: "refresh_rate",
		},
		{
			name:      "pixel clock below range",
			params:    TimingParameters{HActive: 1920, VActive: 1080, PixelClock: 5, Mode: ModeByPixelClock},
			wantField: "pixel_clock",
		},
		{
			name:      "negative pixel clock",
			params:    TimingParameters{HActive: 1920, VActive: 1080, PixelClock: -10, Mode: ModeByPixelClock},
			wantField: "pixel_clock",
		},
		{
			name:      "dual mode checks the clock too",
			params:    TimingParameters{HActive: 1920, VActive: 1080, RefreshRate: 60, PixelClock: 1500, Mode: ModeByBoth},
			wantField: "pixel_clock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.params)
			require.Nil(t, got)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "want *ValidationError, got %T: %v", err, err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Contains(t, vErr.Error(), tt.wantField)
		})
	}
}

// The calculator must not mutate its input; each call returns a fresh copy.
func TestCalculateLeavesInputUntouched(t *testing.T) {
	calc := NewCalculator()
	in := TimingParameters{HActive: 1920, VActive: 1080, RefreshRate: 60, Mode: ModeByRefreshRate}
	before := in

	got, err := calc.Calculate(in)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, before, in)
	assert.Zero(t, in.HTotal)
}
