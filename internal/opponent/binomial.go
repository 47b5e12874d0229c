package opponent

import "math"

// AtLeast returns P(X >= k) for X ~ Binomial(n, p)
func AtLeast(n, k int, p float64) float64 {
	if k <= 0 {
		return 1.0
	}
	prob := 0.0
	for i := k; i <= n; i++ {
		prob += BinomialPMF(n, i, p)
	}
	return prob
}

// BinomialPMF returns C(n, k) · p^k · (1-p)^(n-k)
func BinomialPMF(n, k int, p float64) float64 {
	if k < 0 || k > n {
		return 0.0
	}
	return binomialCoefficient(n, k) * math.Pow(p, float64(k)) * math.Pow(1-p, float64(n-k))
}

// binomialCoefficient computes C(n, k) incrementally over the smaller of k
// and n-k.
func binomialCoefficient(n, k int) float64 {
	if k < 0 || k > n {
		return 0.0
	}
	k = min(k, n-k)
	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n - i)
		result /= float64(i + 1)
	}
	return result
}
