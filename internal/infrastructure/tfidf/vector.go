package tfidf

import "math"

// Vector is a sparse vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries
func (v Vector) Len() int { return len(v.Indices) }

// IsZero reports whether every entry is zero
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Dot computes the inner product of two sparse vectors
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm
func Norm(v Vector) float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// EuclideanDistance computes the straight-line distance between a and b
func EuclideanDistance(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) || j < len(b.Indices) {
		var d float64
		switch {
		case j >= len(b.Indices) || (i < len(a.Indices) && a.Indices[i] < b.Indices[j]):
			d = a.Values[i]
			i++
		case i >= len(a.Indices) || b.Indices[j] < a.Indices[i]:
			d = b.Values[j]
			j++
		default:
			d = a.Values[i] - b.Values[j]
			i++
			j++
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns 0 when either vector has zero norm.
func CosineSimilarity(a, b Vector) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}
