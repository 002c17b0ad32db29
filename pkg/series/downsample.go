package series

import "math"

// DefaultTarget is the maximum number of points handed to a chart.
const DefaultTarget = 420

// Downsample bounds points to at most target entries by averaging consecutive
// buckets of ceil(n/target) samples. Each bucket keeps the labels of its first
// sample. Inputs that already fit are returned unchanged.
func Downsample(points []Sample, target int) []Sample {
	if target <= 0 {
		target = DefaultTarget
	}
	if points == nil {
		return []Sample{}
	}
	n := len(points)
	if n <= target {
		return points
	}

	size := (n + target - 1) / target
	out := make([]Sample, 0, (n+size-1)/size)
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		out = append(out, average(points[i:end]))
	}
	return out
}

func average(bucket []Sample) Sample {
	var ph, temp float64
	for _, p := range bucket {
		ph += p.PH
		temp += p.Temperature
	}
	count := float64(len(bucket))
	return Sample{
		PH:          finiteOrZero(ph / count),
		Temperature: finiteOrZero(temp / count),
		Hora:        bucket[0].Hora,
		DiaRegistro: bucket[0].DiaRegistro,
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
