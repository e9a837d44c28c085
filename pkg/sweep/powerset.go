package sweep

// Powerset returns every subset of flags ordered by size, then by position of the elements,
// starting with the empty set.
func Powerset(flags []string) [][]string {
	subsets := [][]string{{}}
	for size := 1; size <= len(flags); size++ {
		subsets = append(subsets, combinations(flags, size)...)
	}
	return subsets
}

func combinations(elems []string, size int) [][]string {
	var result [][]string
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}
	for {
		combination := make([]string, size)
		for i, index := range indices {
			combination[i] = elems[index]
		}
		result = append(result, combination)

		// Find rightmost index which can still move.
		i := size - 1
		for i >= 0 && indices[i] == len(elems)-size+i {
			i--
		}
		if i < 0 {
			return result
		}
		indices[i]++
		for j := i + 1; j < size; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
