// Package ta holds small series helpers shared by the strategies.
package ta

// Last returns the element `position` steps back from the end of the series.
func Last(s []float64, position int) float64 {
	return s[len(s)-1-position]
}

// LastValues returns at most the trailing `size` elements of the series.
func LastValues(s []float64, size int) []float64 {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Mean averages the leading n elements of the series. n is clamped to
// the series length.
func Mean(s []float64, n int) float64 {
	if n > len(s) {
		n = len(s)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range s[:n] {
		sum += v
	}
	return sum / float64(n)
}

// Lowest returns the minimum of the series.
func Lowest(s []float64) float64 {
	minVal := s[0]
	for _, v := range s {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// Highest returns the maximum of the series.
func Highest(s []float64) float64 {
	maxVal := s[0]
	for _, v := range s {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// WindowExtrema slides a window of the given size over the series and
// returns the lowest of the window minima and the highest of the window
// maxima. A window larger than the series degrades to the whole series.
func WindowExtrema(s []float64, window int) (support, resistance float64) {
	if len(s) == 0 {
		return 0, 0
	}
	if window > len(s) {
		window = len(s)
	}
	support = s[0]
	resistance = s[0]
	for i := 0; i+window <= len(s); i++ {
		w := s[i : i+window]
		if low := Lowest(w); i == 0 || low < support {
			support = low
		}
		if high := Highest(w); i == 0 || high > resistance {
			resistance = high
		}
	}
	return support, resistance
}
