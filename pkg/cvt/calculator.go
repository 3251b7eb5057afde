package cvt

import "math"

// CVT 1.2 constants for standard blanking.
const (
	// CellGran is the character cell granularity in pixels; horizontal
	// timing values are quantized to it.
	CellGran = 8

	minVPorch     = 3     // vertical front porch, lines
	minVBackPorch = 6     // vertical back porch floor, lines
	minVSyncBPUS  = 550.0 // minimum vertical sync + back porch, µs

	hSyncPercent = 8.0 // sync pulse share of the horizontal total, %

	// GTF-derived ideal duty cycle coefficients (C' and M') with the
	// standard's 20% floor.
	dutyCycleC   = 30.0
	dutyCycleM   = 300.0
	minDutyCycle = 20.0

	// Clock generators step in discrete increments; the computed clock is
	// rounded down to this step, never up.
	clockStepMHz = 0.25
)

// CVT-RB fixed blanking constants.
const (
	rbHBlank     = 160   // horizontal blanking, pixels
	rbHSync      = 32    // horizontal sync pulse, pixels
	rbHBackPorch = 80    // horizontal back porch, pixels
	rbVBlankUS   = 460.0 // vertical blanking interval, µs
	rbVSync      = 8     // vertical sync pulse, lines
	rbMinVBPorch = 6     // vertical back porch floor, lines
	rbMinVBlank  = minVPorch + rbVSync + rbMinVBPorch
)

// Reverse solve bounds.
const (
	reverseTolerance  = 1e-4
	reverseIterations = 50
)

// Dual-parameter reconciliation bounds.
const (
	dualIterations   = 10
	dualToleranceMHz = 0.01
)

// Calculator implements the VESA CVT 1.2 timing computation in standard and
// reduced blanking variants. It is stateless; a single value may be shared
// by any number of goroutines.
type Calculator struct{}

// NewCalculator returns a ready to use calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate validates the inputs and produces a fully populated copy of p.
// The driving quantity is selected by p.Mode: a refresh rate (forward), a
// pixel clock (reverse) or both. Errors are *ValidationError,
// *ConvergenceError, *ArithmeticError or *InvariantError.
func (c *Calculator) Calculate(p TimingParameters) (*TimingParameters, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		result *TimingParameters
		err    error
	)
	switch p.Mode {
	case ModeByRefreshRate:
		if p.ReducedBlanking {
			result, err = c.reducedBlanking(p)
		} else {
			result, err = c.standardCVT(p)
		}
	case ModeByPixelClock:
		result, err = c.fromPixelClock(p)
	case ModeByBoth:
		result, err = c.fromBoth(p)
	}
	if err != nil {
		return nil, err
	}
	if err := result.checkInvariants(); err != nil {
		return nil, err
	}
	return result, nil
}

// standardCVT runs the standard blanking computation for a target refresh
// rate. Steps follow CVT 1.2: fixed vertical front porch, aspect-dependent
// sync width, line period estimation refined against the 550 µs minimum
// sync+back-porch interval, GTF duty cycle blanking, cell-quantized
// horizontal components and a clock-step quantized pixel clock.
func (c *Calculator) standardCVT(p TimingParameters) (*TimingParameters, error) {
	hActive := p.HActive / CellGran * CellGran
	vSync := verticalSyncWidth(hActive, p.VActive)

	// First-guess line period: frame time minus the minimum vertical
	// sync+back-porch interval, spread over the active and front porch lines.
	hPeriodEst := (1e6/p.RefreshRate - minVSyncBPUS) / float64(p.VActive+minVPorch)
	if hPeriodEst <= 0 {
		return nil, &ArithmeticError{Quantity: "line period estimate", Value: hPeriodEst}
	}

	// Lines needed for 550 µs of sync + back porch, refined once against the
	// resulting vertical total. The estimate stabilizes within two passes.
	hPeriod := hPeriodEst
	vSyncBP := 0
	for pass := 0; pass < 2; pass++ {
		n := int(minVSyncBPUS/hPeriod) + 1
		if n < vSync+minVBackPorch {
			n = vSync + minVBackPorch
		}
		if n == vSyncBP {
			break
		}
		vSyncBP = n
		hPeriod = 1e6 / (p.RefreshRate * float64(p.VActive+vSyncBP+minVPorch))
	}
	vBack := vSyncBP - vSync
	vBlank := minVPorch + vSync + vBack
	vTotal := p.VActive + vBlank

	duty := dutyCycleC - dutyCycleM*hPeriodEst/1000.0
	if duty < minDutyCycle {
		duty = minDutyCycle
	}
	hBlank := int(float64(hActive)*duty/(100.0-duty)/(2*CellGran)) * (2 * CellGran)
	hTotal := hActive + hBlank

	hSync := roundToMultiple(hSyncPercent/100.0*float64(hTotal), CellGran/2)
	hBack := hBlank / 2
	hFront := hBlank - hSync - hBack

	out := p
	out.PixelClock = quantizeClock(float64(hTotal) * float64(vTotal) * p.RefreshRate / 1e6)
	out.HTotal = hTotal
	out.HBlanking = hBlank
	out.HFrontPorch = hFront
	out.HSyncPulse = hSync
	out.HBackPorch = hBack
	out.VTotal = vTotal
	out.VBlanking = vBlank
	out.VFrontPorch = minVPorch
	out.VSyncPulse = vSync
	out.VBackPorch = vBack
	return &out, nil
}

// reducedBlanking runs the CVT-RB computation for a target refresh rate.
// Horizontal blanking is fixed at 160 pixels; the vertical blanking covers
// the fixed 460 µs interval, with the line time estimated from the
// minimum-blanking vertical total.
func (c *Calculator) reducedBlanking(p TimingParameters) (*TimingParameters, error) {
	hActive := p.HActive / CellGran * CellGran
	hTotal := hActive + rbHBlank

	vTotalEst := p.VActive + rbMinVBlank
	hPeriod := 1e6 / (p.RefreshRate * float64(vTotalEst))
	if hPeriod <= 0 {
		return nil, &ArithmeticError{Quantity: "line period estimate", Value: hPeriod}
	}
	vBlank := int(math.Ceil(rbVBlankUS / hPeriod))
	if vBlank < rbMinVBlank {
		vBlank = rbMinVBlank
	}
	vTotal := p.VActive + vBlank

	out := p
	out.PixelClock = quantizeClock(float64(hTotal) * float64(vTotal) * p.RefreshRate / 1e6)
	out.HTotal = hTotal
	out.HBlanking = rbHBlank
	out.HFrontPorch = rbHBlank - rbHSync - rbHBackPorch
	out.HSyncPulse = rbHSync
	out.HBackPorch = rbHBackPorch
	out.VTotal = vTotal
	out.VBlanking = vBlank
	out.VFrontPorch = minVPorch
	out.VSyncPulse = rbVSync
	out.VBackPorch = vBlank - minVPorch - rbVSync
	return &out, nil
}

// fromPixelClock infers the refresh rate for a given pixel clock. The
// standard variant solves the circular refresh/blanking dependency by
// bounded fixed-point iteration on a refresh rate guess; the reduced
// blanking variant is direct because its totals do not depend on the rate.
func (c *Calculator) fromPixelClock(p TimingParameters) (*TimingParameters, error) {
	if p.ReducedBlanking {
		return c.reducedBlankingFromClock(p)
	}

	target := p.PixelClock
	guess := 60.0
	residual := math.Inf(1)
	for i := 0; i < reverseIterations; i++ {
		fwd := p
		fwd.Mode = ModeByRefreshRate
		fwd.RefreshRate = guess
		res, err := c.standardCVT(fwd)
		if err != nil {
			return nil, err
		}

		// Compare against the unquantized clock; the 0.25 MHz step would
		// otherwise keep the residual above tolerance for most targets.
		calculated := float64(res.HTotal) * float64(res.VTotal) * guess / 1e6
		if calculated <= 0 {
			return nil, &ArithmeticError{Quantity: "pixel clock product", Value: calculated}
		}
		residual = (calculated - target) / target
		if math.Abs(residual) < reverseTolerance {
			out := *res
			out.Mode = ModeByPixelClock
			out.PixelClock = target
			out.RefreshRate = target * 1e6 / (float64(res.HTotal) * float64(res.VTotal))
			return &out, nil
		}
		guess *= target / calculated
	}
	return nil, &ConvergenceError{LastGuess: guess, Residual: residual, Iterations: reverseIterations}
}

// reducedBlankingFromClock solves CVT-RB reverse mode directly: with the
// horizontal total fixed by the resolution, the line time follows from the
// pixel clock alone and the refresh rate drops out of a single division.
func (c *Calculator) reducedBlankingFromClock(p TimingParameters) (*TimingParameters, error) {
	hActive := p.HActive / CellGran * CellGran
	hTotal := hActive + rbHBlank

	hPeriod := float64(hTotal) / p.PixelClock // µs per line at MHz clock
	if hPeriod <= 0 {
		return nil, &ArithmeticError{Quantity: "line period", Value: hPeriod}
	}
	vBlank := int(math.Ceil(rbVBlankUS / hPeriod))
	if vBlank < rbMinVBlank {
		vBlank = rbMinVBlank
	}
	vTotal := p.VActive + vBlank

	out := p
	out.RefreshRate = p.PixelClock * 1e6 / (float64(hTotal) * float64(vTotal))
	out.HTotal = hTotal
	out.HBlanking = rbHBlank
	out.HFrontPorch = rbHBlank - rbHSync - rbHBackPorch
	out.HSyncPulse = rbHSync
	out.HBackPorch = rbHBackPorch
	out.VTotal = vTotal
	out.VBlanking = vBlank
	out.VFrontPorch = minVPorch
	out.VSyncPulse = rbVSync
	out.VBackPorch = vBlank - minVPorch - rbVSync
	return &out, nil
}

// fromBoth reconciles a supplied refresh rate and pixel clock. Horizontal
// timing follows the selected variant's rules for the given refresh rate;
// the vertical total is then adjusted, within bounds, so that
// h_total * v_total * refresh_rate matches the supplied clock.
func (c *Calculator) fromBoth(p TimingParameters) (*TimingParameters, error) {
	fwd := p
	fwd.Mode = ModeByRefreshRate
	var (
		res *TimingParameters
		err error
	)
	if p.ReducedBlanking {
		res, err = c.reducedBlanking(fwd)
	} else {
		res, err = c.standardCVT(fwd)
	}
	if err != nil {
		return nil, err
	}

	minVBlank := res.VFrontPorch + res.VSyncPulse + 1
	if p.ReducedBlanking {
		minVBlank = rbMinVBlank
	}

	targetProduct := p.PixelClock * 1e6 / p.RefreshRate
	vTotal := res.VTotal
	for i := 0; i < dualIterations; i++ {
		calculated := float64(res.HTotal) * float64(vTotal) * p.RefreshRate / 1e6
		if math.Abs(calculated-p.PixelClock) < dualToleranceMHz {
			break
		}
		vTotal = int(math.Round(targetProduct / float64(res.HTotal)))
		if vTotal-p.VActive < minVBlank {
			vTotal = p.VActive + minVBlank
		}
	}

	out := *res
	out.Mode = ModeByBoth
	out.PixelClock = p.PixelClock
	out.RefreshRate = p.RefreshRate
	out.VTotal = vTotal
	out.VBlanking = vTotal - p.VActive
	out.VBackPorch = out.VBlanking - out.VFrontPorch - out.VSyncPulse
	return &out, nil
}

// quantizeClock rounds a clock in MHz down to the generator step. Rounding
// up would promise a clock real hardware cannot produce.
func quantizeClock(mhz float64) float64 {
	return math.Floor(mhz/clockStepMHz) * clockStepMHz
}

// roundToMultiple rounds x to the nearest multiple of m.
func roundToMultiple(x float64, m int) int {
	return int(math.Round(x/float64(m))) * m
}
