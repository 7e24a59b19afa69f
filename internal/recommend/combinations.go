package recommend

// DefaultMaxCandidates bounds n before a C(n, k) enumeration.
// C(40, 3) is 9880 leg sets.
const DefaultMaxCandidates = 40

// Binomial returns C(n, k), or 0 when k is out of range
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// Combinations calls fn with the indexes of every k-sized subset of n items,
// in lexicographic order. The slice passed to fn is reused between calls.
func Combinations(n, k int, fn func(idx []int)) {
	if k <= 0 || k > n {
		return
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		fn(idx)

		// Find the rightmost index that can still advance
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
