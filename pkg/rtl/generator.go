package rtl

import (
	"bytes"
	"fmt"
	"math/bits"
	"text/template"
	"time"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
)

// ModuleData contains all data needed for RTL generation
type ModuleData struct {
	ModuleName  string
	GeneratedAt time.Time

	HActive     int
	VActive     int
	RefreshRate float64
	PixelClock  float64

	HTotal      int
	HFrontPorch int
	HSyncPulse  int
	HBackPorch  int

	VTotal      int
	VFrontPorch int
	VSyncPulse  int
	VBackPorch  int

	HSyncStart int
	HSyncEnd   int
	VSyncStart int
	VSyncEnd   int

	HCountWidth int
	VCountWidth int

	ClkPeriodNS float64
}

// Generator creates Verilog RTL from computed timing parameters
type Generator struct{}

// NewGenerator creates a new RTL generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateModule generates the timing generator Verilog module for a
// computed timing result.
func (g *Generator) GenerateModule(p *cvt.TimingParameters) (string, error) {
	data, err := g.buildModuleData(p)
	if err != nil {
		return "", err
	}

	tmpl, err := g.loadTemplate("module", moduleTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateTestbench generates a self-checking testbench that runs the
// module for three frames, dumps a VCD trace and aborts after a five
// frame timeout.
func (g *Generator) GenerateTestbench(p *cvt.TimingParameters) (string, error) {
	data, err := g.buildModuleData(p)
	if err != nil {
		return "", err
	}

	tmpl, err := g.loadTemplate("testbench", testbenchTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// buildModuleData derives the template inputs from a timing result. The
// active widths come from the computed totals so the DE window always
// matches the counters, even when the requested width was not a multiple
// of the cell granularity.
func (g *Generator) buildModuleData(p *cvt.TimingParameters) (*ModuleData, error) {
	if p == nil || p.HTotal <= 0 || p.VTotal <= 0 {
		return nil, fmt.Errorf("rtl: timing parameters are not computed")
	}
	if p.PixelClock <= 0 {
		return nil, fmt.Errorf("rtl: pixel clock must be positive, got %.4f MHz", p.PixelClock)
	}

	hActive := p.HTotal - p.HBlanking
	vActive := p.VTotal - p.VBlanking

	data := &ModuleData{
		ModuleName:  ModuleName(p),
		GeneratedAt: time.Now(),

		HActive:     hActive,
		VActive:     vActive,
		RefreshRate: p.RefreshRate,
		PixelClock:  p.PixelClock,

		HTotal:      p.HTotal,
		HFrontPorch: p.HFrontPorch,
		HSyncPulse:  p.HSyncPulse,
		HBackPorch:  p.HBackPorch,

		VTotal:      p.VTotal,
		VFrontPorch: p.VFrontPorch,
		VSyncPulse:  p.VSyncPulse,
		VBackPorch:  p.VBackPorch,

		HSyncStart: hActive + p.HFrontPorch,
		VSyncStart: vActive + p.VFrontPorch,

		HCountWidth: counterWidth(p.HTotal),
		VCountWidth: counterWidth(p.VTotal),

		ClkPeriodNS: 1000.0 / p.PixelClock,
	}
	data.HSyncEnd = data.HSyncStart + p.HSyncPulse
	data.VSyncEnd = data.VSyncStart + p.VSyncPulse
	return data, nil
}

// loadTemplate parses a Verilog template with the shared function map
func (g *Generator) loadTemplate(name, text string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"sub": func(a, b int) int {
			return a - b
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// counterWidth returns the number of bits needed to count 0..total-1.
func counterWidth(total int) int {
	w := bits.Len(uint(total - 1))
	if w == 0 {
		w = 1
	}
	return w
}

// moduleTemplate is the Verilog timing generator template
const moduleTemplate = `//==============================================================================
// VESA Timing Generator
//
// Generated at: {{formatTime .GeneratedAt}}
// Generated by: vesa-timing-gen
//
// Timing parameters:
//   Resolution:    {{.HActive}}x{{.VActive}}
//   Refresh rate:  {{printf "%.2f" .RefreshRate}} Hz
//   Pixel clock:   {{printf "%.2f" .PixelClock}} MHz
//
// Horizontal timing:
//   H_ACTIVE      = {{.HActive}}
//   H_FRONT_PORCH = {{.HFrontPorch}}
//   H_SYNC_PULSE  = {{.HSyncPulse}}
//   H_BACK_PORCH  = {{.HBackPorch}}
//   H_TOTAL       = {{.HTotal}}
//
// Vertical timing:
//   V_ACTIVE      = {{.VActive}}
//   V_FRONT_PORCH = {{.VFrontPorch}}
//   V_SYNC_PULSE  = {{.VSyncPulse}}
//   V_BACK_PORCH  = {{.VBackPorch}}
//   V_TOTAL       = {{.VTotal}}
//==============================================================================

module {{.ModuleName}} (
    input  wire        clk,           // pixel clock ({{printf "%.2f" .PixelClock}} MHz)
    input  wire        rst_n,         // asynchronous reset, active low

    output reg         hsync,         // horizontal sync
    output reg         vsync,         // vertical sync
    output reg         de,            // data enable
    output reg         frame_valid,   // frame valid

    output reg  [{{sub .HCountWidth 1}}:0]  h_count,      // horizontal counter
    output reg  [{{sub .VCountWidth 1}}:0]  v_count       // vertical counter
);

//==============================================================================
// Parameters
//==============================================================================

// Horizontal timing
localparam H_ACTIVE      = {{.HActive}};
localparam H_FRONT_PORCH = {{.HFrontPorch}};
localparam H_SYNC_PULSE  = {{.HSyncPulse}};
localparam H_BACK_PORCH  = {{.HBackPorch}};
localparam H_TOTAL       = {{.HTotal}};

// Vertical timing
localparam V_ACTIVE      = {{.VActive}};
localparam V_FRONT_PORCH = {{.VFrontPorch}};
localparam V_SYNC_PULSE  = {{.VSyncPulse}};
localparam V_BACK_PORCH  = {{.VBackPorch}};
localparam V_TOTAL       = {{.VTotal}};

// Sync signal boundaries
localparam H_SYNC_START  = H_ACTIVE + H_FRONT_PORCH;
localparam H_SYNC_END    = H_SYNC_START + H_SYNC_PULSE;

localparam V_SYNC_START  = V_ACTIVE + V_FRONT_PORCH;
localparam V_SYNC_END    = V_SYNC_START + V_SYNC_PULSE;

//==============================================================================
// Horizontal counter
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        h_count <= {{.HCountWidth}}'d0;
    end else begin
        if (h_count == H_TOTAL - 1) begin
            h_count <= {{.HCountWidth}}'d0;
        end else begin
            h_count <= h_count + 1'b1;
        end
    end
end

//==============================================================================
// Vertical counter
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        v_count <= {{.VCountWidth}}'d0;
    end else begin
        if (h_count == H_TOTAL - 1) begin
            if (v_count == V_TOTAL - 1) begin
                v_count <= {{.VCountWidth}}'d0;
            end else begin
                v_count <= v_count + 1'b1;
            end
        end
    end
end

//==============================================================================
// Horizontal sync generation
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        hsync <= 1'b1;
    end else begin
        if (h_count >= H_SYNC_START && h_count < H_SYNC_END) begin
            hsync <= 1'b0;  // sync pulse is active low
        end else begin
            hsync <= 1'b1;
        end
    end
end

//==============================================================================
// Vertical sync generation
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        vsync <= 1'b1;
    end else begin
        if (v_count >= V_SYNC_START && v_count < V_SYNC_END) begin
            vsync <= 1'b0;  // sync pulse is active low
        end else begin
            vsync <= 1'b1;
        end
    end
end

//==============================================================================
// Data enable generation
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        de <= 1'b0;
    end else begin
        if (h_count < H_ACTIVE && v_count < V_ACTIVE) begin
            de <= 1'b1;  // inside the active display area
        end else begin
            de <= 1'b0;
        end
    end
end

//==============================================================================
// Frame valid generation
//==============================================================================

always @(posedge clk or negedge rst_n) begin
    if (!rst_n) begin
        frame_valid <= 1'b0;
    end else begin
        if (v_count < V_ACTIVE) begin
            frame_valid <= 1'b1;  // inside the active frame
        end else begin
            frame_valid <= 1'b0;
        end
    end
end

endmodule
`

// testbenchTemplate is the Verilog testbench template
const testbenchTemplate = `//==============================================================================
// VESA Timing Generator Testbench
//
// Generated at: {{formatTime .GeneratedAt}}
// Generated by: vesa-timing-gen
//==============================================================================

` + "`timescale 1ns / 1ps" + `

module tb_{{.ModuleName}};

//==============================================================================
// Parameters
//==============================================================================

localparam CLK_PERIOD = {{printf "%.3f" .ClkPeriodNS}};  // clock period (ns)
localparam H_TOTAL = {{.HTotal}};
localparam V_TOTAL = {{.VTotal}};

//==============================================================================
// Signals
//==============================================================================

reg         clk;
reg         rst_n;

wire        hsync;
wire        vsync;
wire        de;
wire        frame_valid;
wire [{{sub .HCountWidth 1}}:0] h_count;
wire [{{sub .VCountWidth 1}}:0] v_count;

//==============================================================================
// Clock generation
//==============================================================================

initial begin
    clk = 1'b0;
    forever #(CLK_PERIOD/2) clk = ~clk;
end

//==============================================================================
// Reset generation
//==============================================================================

initial begin
    rst_n = 1'b0;
    #(CLK_PERIOD * 10);
    rst_n = 1'b1;
end

//==============================================================================
// Device under test
//==============================================================================

{{.ModuleName}} u_{{.ModuleName}} (
    .clk         (clk),
    .rst_n       (rst_n),
    .hsync       (hsync),
    .vsync       (vsync),
    .de          (de),
    .frame_valid (frame_valid),
    .h_count     (h_count),
    .v_count     (v_count)
);

//==============================================================================
// Frame monitor
//==============================================================================

integer frame_count;

initial begin
    frame_count = 0;

    // wait for reset release
    @(posedge rst_n);

    // count vertical sync pulses
    forever begin
        @(negedge vsync);
        frame_count = frame_count + 1;
        $display("Time: %t ns - Frame %0d started", $time, frame_count);

        // stop after three frames
        if (frame_count >= 3) begin
            #(CLK_PERIOD * H_TOTAL * 10);
            $display("\nSimulation completed successfully!");
            $display("Total frames simulated: %0d", frame_count);
            $finish;
        end
    end
end

//==============================================================================
// Waveform dump
//==============================================================================

initial begin
    $dumpfile("tb_{{.ModuleName}}.vcd");
    $dumpvars(0, tb_{{.ModuleName}});
end

//==============================================================================
// Timeout guard
//==============================================================================

initial begin
    #(CLK_PERIOD * H_TOTAL * V_TOTAL * 5);  // five frames of slack
    $display("ERROR: Simulation timeout!");
    $finish;
end

endmodule
`
