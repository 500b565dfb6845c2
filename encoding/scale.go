package encoding

// Scale converts a raw integer code to an engineering-unit value by evaluating
// the channel's scaling polynomial sum(coeffs[k] * raw^k).
//
// The raw power is accumulated term by term. Coefficient lists are short in
// practice (device polynomials carry at most a few terms), so raw^k overflow
// for large k is a known numeric-precision limitation rather than a guarded
// path.
func Scale(coeffs []float64, raw int32) float64 {
	result := 0.0
	power := 1.0
	x := float64(raw)

	for _, c := range coeffs {
		result += c * power
		power *= x
	}

	return result
}
