package anchor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meshfabric/wmn-simulator/model"
)

// AdjacencyMatrix is a square 0/1 connectivity matrix over a fixed
// node ordering. Entry (i,j) is 1 iff node j was reported as a
// neighbor of node i when the matrix was built. Connectivity is
// undirected, so the matrix is symmetric with a zero diagonal.
type AdjacencyMatrix struct {
	m *mat.Dense
	n int
}

// BuildAdjacency converts an ordered node sequence and a neighbor
// probe into a fresh adjacency matrix. The probe is evaluated once per
// node (O(N²) membership checks overall) and the inputs are never
// mutated.
func BuildAdjacency(nodes []model.NodeDefinition, probe NeighborProbe) (*AdjacencyMatrix, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes in snapshot", ErrInvalidTopology)
	}
	if probe == nil {
		return nil, fmt.Errorf("%w: nil neighbor probe", ErrInvalidTopology)
	}
	index := make(map[string]int, len(nodes))
	for i, nd := range nodes {
		if _, dup := index[nd.ID]; dup {
			return nil, fmt.Errorf("%w: node %q appears more than once", ErrInvalidTopology, nd.ID)
		}
		index[nd.ID] = i
	}

	n := len(nodes)
	m := mat.NewDense(n, n, nil)
	for i, nd := range nodes {
		for _, id := range probe(nd.ID) {
			j, ok := index[id]
			if !ok || j == i {
				// Neighbors outside the snapshot (hosts, the
				// controller) and self-reports are dropped.
				continue
			}
			m.Set(i, j, 1)
		}
	}
	return &AdjacencyMatrix{m: m, n: n}, nil
}

// Dim returns the matrix dimension N.
func (a *AdjacencyMatrix) Dim() int { return a.n }

// Connected reports whether entry (i,j) is set.
func (a *AdjacencyMatrix) Connected(i, j int) bool { return a.m.At(i, j) != 0 }

// Degree returns the row sum for node index i: its current neighbor
// count.
func (a *AdjacencyMatrix) Degree(i int) int {
	return int(mat.Sum(a.m.RowView(i)))
}

// Degrees returns the row-sum degree vector for all nodes.
func (a *AdjacencyMatrix) Degrees() []int {
	out := make([]int, a.n)
	for i := range out {
		out[i] = a.Degree(i)
	}
	return out
}
