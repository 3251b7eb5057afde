package rtl

import (
	"fmt"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
)

// ModuleName builds the canonical module name for a computed timing:
// vesa_timing_<h_active>x<v_active>_<refresh_rate>hz with an _rb suffix for
// reduced blanking. The refresh rate is truncated to whole hertz.
func ModuleName(p *cvt.TimingParameters) string {
	suffix := ""
	if p.ReducedBlanking {
		suffix = "_rb"
	}
	return fmt.Sprintf("vesa_timing_%dx%d_%dhz%s", p.HActive, p.VActive, int(p.RefreshRate), suffix)
}

// ModuleFileName is the artifact file name for the generated module.
func ModuleFileName(moduleName string) string {
	return moduleName + ".v"
}

// TestbenchFileName is the artifact file name for the generated testbench.
func TestbenchFileName(moduleName string) string {
	return "tb_" + moduleName + ".v"
}
