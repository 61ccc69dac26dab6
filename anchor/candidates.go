package anchor

// MostConnected returns the indices of the nodes attaining the maximum
// degree (the most-connected set), in ascending index order. The
// result is non-empty for every non-empty matrix: a degree of zero is
// still the maximum when every node is isolated.
func MostConnected(adj *AdjacencyMatrix) []int {
	if adj == nil || adj.Dim() == 0 {
		return nil
	}
	degrees := adj.Degrees()
	max := degrees[0]
	for _, d := range degrees[1:] {
		if d > max {
			max = d
		}
	}
	var out []int
	for i, d := range degrees {
		if d == max {
			out = append(out, i)
		}
	}
	return out
}
