package cvt

import "fmt"

// ValidationError reports an input outside its documented domain.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	Unit  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g %s, got %g",
		e.Field, e.Min, e.Max, e.Unit, e.Value)
}

// ConvergenceError reports a reverse solve that exhausted its iteration
// budget without reaching the residual tolerance.
type ConvergenceError struct {
	LastGuess  float64 // last refresh rate guess in Hz
	Residual   float64 // relative pixel clock error at the last guess
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("reverse solve did not converge after %d iterations (last guess %.4f Hz, residual %.2e)",
		e.Iterations, e.LastGuess, e.Residual)
}

// ArithmeticError reports a degenerate intermediate value, such as a zero or
// negative line time, that makes the calculation meaningless.
type ArithmeticError struct {
	Quantity string
	Value    float64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("degenerate %s (%g) during timing calculation", e.Quantity, e.Value)
}

// InvariantError reports a computed result that violates one of the timing
// sum or sign invariants. It always indicates a defect in the calculator,
// never a caller mistake.
type InvariantError struct {
	Description string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Description)
}
