package transcode

// chooseSampleRate implements the normative sample-rate selection of
// spec §4.2 step 3 and §8 property 5: the chosen rate is a member of
// supported, and is the largest such value ≤ min(inputRate, 48000) if
// one exists, otherwise the smallest member of supported (covers the
// case where even the lowest supported rate exceeds the input rate).
func chooseSampleRate(supported []int, inputRate int) int {
	if len(supported) == 0 {
		return inputRate
	}

	cap := inputRate
	if cap > 48000 {
		cap = 48000
	}

	best := -1
	min := supported[0]
	for _, r := range supported {
		if r < min {
			min = r
		}
		if r <= cap && r > best {
			best = r
		}
	}
	if best >= 0 {
		return best
	}
	return min
}
