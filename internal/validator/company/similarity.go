package company

import "math"

// LevenshteinDistance returns the unit-cost edit distance between a and b,
// measured in runes.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	matrix := make([][]int, len(rb)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(ra)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(ra); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
				continue
			}
			matrix[i][j] = 1 + min(matrix[i-1][j-1], matrix[i][j-1], matrix[i-1][j])
		}
	}
	return matrix[len(rb)][len(ra)]
}

// SimilarityPercent scores two values in [0,100] after company-name
// normalization. Two values that both normalize to empty score 100.
func SimilarityPercent(a, b string) int {
	normA := NormalizeCompanyName(a)
	normB := NormalizeCompanyName(b)
	if normA == normB {
		return 100
	}

	maxLen := max(len([]rune(normA)), len([]rune(normB)))
	if maxLen == 0 {
		return 100
	}
	distance := LevenshteinDistance(normA, normB)
	return int(math.Round(100 * float64(maxLen-distance) / float64(maxLen)))
}
