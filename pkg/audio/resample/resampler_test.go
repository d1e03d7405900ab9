// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling and channel mixdown
package resample

import "testing"

func ramp(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(i * 100)
	}
	return s
}

func TestResampleSizes(t *testing.T) {
	tests := []struct {
		name    string
		inRate  int
		outRate int
	}{
		{"upsample", 24000, 48000},
		{"downsample", 44100, 24000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ramp(2000)
			out := Convert(input, tt.inRate, tt.outRate, 2)

			expected := int(float64(len(input)) * float64(tt.outRate) / float64(tt.inRate))
			if len(out) < expected-10 || len(out) > expected+10 {
				t.Errorf("expected ~%d samples, got %d", expected, len(out))
			}
			if len(out)%2 != 0 {
				t.Errorf("output should hold whole stereo frames, got %d samples", len(out))
			}
		})
	}
}

func TestResampleInterpolates(t *testing.T) {
	r := New(1, 2, 1)
	out := make([]int32, 4)
	n := r.Resample([]int32{0, 100, 200}, out)

	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}
	want := []int32{0, 50, 100, 150}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestConvertSameRate(t *testing.T) {
	input := ramp(10)
	out := Convert(input, 24000, 24000, 1)
	if len(out) != len(input) || &out[0] != &input[0] {
		t.Error("same-rate conversion should return input unchanged")
	}
}

func TestResampleEmpty(t *testing.T) {
	r := New(44100, 48000, 2)
	if n := r.Resample(nil, make([]int32, 10)); n != 0 {
		t.Errorf("expected 0 samples, got %d", n)
	}
}

func TestToMono(t *testing.T) {
	out := ToMono([]int32{100, 300, -200, 200, 7}, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(out))
	}
	if out[0] != 200 || out[1] != 0 {
		t.Errorf("unexpected mixdown %v", out)
	}

	mono := []int32{1, 2, 3}
	if got := ToMono(mono, 1); len(got) != 3 {
		t.Errorf("mono input should pass through, got %v", got)
	}
}
