package cvt

import "testing"

func TestClassifyAspect(t *testing.T) {
	tests := []struct {
		hActive int
		vActive int
		want    AspectRatio
	}{
		{640, 480, Aspect4x3},
		{800, 600, Aspect4x3},
		{1024, 768, Aspect4x3},
		{1280, 720, Aspect16x9},
		{1920, 1080, Aspect16x9},
		{3840, 2160, Aspect16x9},
		{1280, 800, Aspect16x10},
		{1920, 1200, Aspect16x10},
		{2560, 1600, Aspect16x10},
		{1280, 1024, Aspect5x4},
		{1200, 720, Aspect15x9},
		{1280, 768, AspectOther}, // 15:9 shape, but 768 is not divisible by 9
		{1360, 768, AspectOther}, // close to 16:9 but not exact
		{1366, 768, AspectOther},
		{2048, 1080, AspectOther},
	}

	for _, tt := range tests {
		got := ClassifyAspect(tt.hActive, tt.vActive)
		if got != tt.want {
			t.Errorf("ClassifyAspect(%d, %d) = %v, want %v", tt.hActive, tt.vActive, got, tt.want)
		}
	}
}

func TestVerticalSyncWidth(t *testing.T) {
	tests := []struct {
		hActive int
		vActive int
		want    int
	}{
		{640, 480, 4},
		{1920, 1080, 5},
		{1920, 1200, 6},
		{1280, 1024, 7},
		{1200, 720, 7},
		{1366, 768, 10},
	}

	for _, tt := range tests {
		got := verticalSyncWidth(tt.hActive, tt.vActive)
		if got != tt.want {
			t.Errorf("verticalSyncWidth(%d, %d) = %d, want %d", tt.hActive, tt.vActive, got, tt.want)
		}
	}
}
