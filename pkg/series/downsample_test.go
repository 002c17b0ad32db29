package series

import (
	"fmt"
	"reflect"
	"testing"
)

func makeSamples(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{
			PH:          float64(i % 14),
			Temperature: 20 + float64(i%10),
			Hora:        fmt.Sprintf("%02d:%02d:00", (i/60)%24, i%60),
			DiaRegistro: fmt.Sprintf("2024-01-%02d", 1+(i/1440)%28),
		}
	}
	return out
}

func TestDownsampleIdentityBelowTarget(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 419, 420} {
		in := makeSamples(n)
		got := Downsample(in, DefaultTarget)
		if !reflect.DeepEqual(got, in) {
			t.Fatalf("n=%d: identity case changed data", n)
		}
	}
}

func TestDownsampleNil(t *testing.T) {
	got := Downsample(nil, 10)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestDownsampleCardinality(t *testing.T) {
	t.Parallel()

	cases := []struct{ n, target int }{
		{421, 420}, {840, 420}, {841, 420}, {1000, 420}, {10000, 420},
		{43201, 420}, {7, 3}, {100, 7}, {5, 1},
	}
	for _, tc := range cases {
		got := Downsample(makeSamples(tc.n), tc.target)
		size := (tc.n + tc.target - 1) / tc.target
		want := (tc.n + size - 1) / size
		if len(got) != want {
			t.Fatalf("n=%d T=%d: len=%d want %d", tc.n, tc.target, len(got), want)
		}
		if len(got) > tc.target {
			t.Fatalf("n=%d T=%d: len=%d exceeds target", tc.n, tc.target, len(got))
		}
	}
}

func TestDownsampleMean(t *testing.T) {
	in := []Sample{
		{PH: 10, Temperature: 1, Hora: "08:00:00", DiaRegistro: "2024-01-01"},
		{PH: 20, Temperature: 2, Hora: "08:01:00", DiaRegistro: "2024-01-01"},
		{PH: 30, Temperature: 6, Hora: "08:02:00", DiaRegistro: "2024-01-02"},
		{PH: 4, Temperature: 8, Hora: "08:03:00", DiaRegistro: "2024-01-02"},
	}
	got := Downsample(in, 2)
	want := []Sample{
		{PH: 15, Temperature: 1.5, Hora: "08:00:00", DiaRegistro: "2024-01-01"},
		{PH: 17, Temperature: 7, Hora: "08:02:00", DiaRegistro: "2024-01-02"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}

	three := Downsample([]Sample{{PH: 10}, {PH: 20}, {PH: 30}, {PH: 1}}, 2)
	if len(three) != 2 {
		t.Fatalf("len=%d want 2", len(three))
	}
	bucket := Downsample([]Sample{{PH: 10}, {PH: 20}, {PH: 30}}, 1)
	if len(bucket) != 1 || bucket[0].PH != 20 {
		t.Fatalf("mean of [10,20,30] = %+v want 20", bucket)
	}
}

func TestDownsampleShortLastBucket(t *testing.T) {
	in := []Sample{{PH: 1}, {PH: 3}, {PH: 5}, {PH: 7}, {PH: 9, Hora: "last"}}
	got := Downsample(in, 2)
	// bucket size ceil(5/2)=3: [1,3,5] and [7,9]
	if len(got) != 2 || got[0].PH != 3 || got[1].PH != 8 || got[1].Hora != "" {
		t.Fatalf("unexpected buckets: %+v", got)
	}
}

func TestDownsampleDeterministic(t *testing.T) {
	in := makeSamples(5000)
	a := Downsample(in, 420)
	b := Downsample(in, 420)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("downsample is not deterministic")
	}
}

func TestDownsampleDefaultTarget(t *testing.T) {
	got := Downsample(makeSamples(1000), 0)
	if len(got) != 334 {
		t.Fatalf("len=%d want 334 (bucket size 3)", len(got))
	}
}
