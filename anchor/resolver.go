package anchor

import (
	"fmt"

	"github.com/meshfabric/wmn-simulator/model"
)

// Rule identifies which tie-break stage elected the anchor. Exposed so
// callers can log and count how elections are being decided.
type Rule string

const (
	// RuleSingleton fires when exactly one node holds the maximum degree.
	RuleSingleton Rule = "singleton"
	// RuleDisconnected fires on the first ordered candidate pair that is
	// not directly linked; the outer index wins.
	RuleDisconnected Rule = "disconnected-pair"
	// RuleMinDistance fires when the candidates form a clique and a
	// single node holds the global minimum distance.
	RuleMinDistance Rule = "min-distance"
	// RuleSecondaryDegree is the last stage: among the minimum-distance
	// set, the first index with the highest connectivity wins.
	RuleSecondaryDegree Rule = "secondary-degree"
)

// Resolve applies the staged tie-break policy over the most-connected
// set and returns exactly one anchor node plus the rule that decided
// it. Candidates must be ascending matrix indices into nodes, as
// produced by MostConnected. Neither the matrix nor the inputs are
// mutated.
func Resolve(candidates []int, adj *AdjacencyMatrix, nodes []model.NodeDefinition) (model.NodeDefinition, Rule, error) {
	var none model.NodeDefinition
	if len(candidates) == 0 {
		return none, "", fmt.Errorf("%w: empty candidate set", ErrInvalidTopology)
	}
	if adj == nil || adj.Dim() != len(nodes) {
		dim := 0
		if adj != nil {
			dim = adj.Dim()
		}
		return none, "", fmt.Errorf("%w: matrix dimension %d does not match %d nodes", ErrInvalidTopology, dim, len(nodes))
	}
	for _, i := range candidates {
		if i < 0 || i >= len(nodes) {
			return none, "", fmt.Errorf("%w: candidate index %d out of range", ErrInvalidTopology, i)
		}
	}

	if len(candidates) == 1 {
		return nodes[candidates[0]], RuleSingleton, nil
	}

	// A most-connected node that is not directly linked to another
	// most-connected node is treated as a structural cut point and
	// wins. The scan order is part of the contract: the first
	// disconnected ordered pair decides, which makes the result
	// reproducible but not otherwise canonical.
	for _, i := range candidates {
		for _, j := range candidates {
			if i != j && !adj.Connected(i, j) {
				return nodes[i], RuleDisconnected, nil
			}
		}
	}

	// The candidates form a clique: fall back to the "distance"
	// ranking over every node in the matrix, not just candidates.
	//
	// TODO: the distance vector is a plain row sum, identical to the
	// degree vector, so this stage can never disagree with the degree
	// ranking; replace it with a real hop-distance metric once one is
	// defined.
	distances := adj.Degrees()
	minDistance := distances[0]
	for _, d := range distances[1:] {
		if d < minDistance {
			minDistance = d
		}
	}
	var sdc []int
	for i, d := range distances {
		if d == minDistance {
			sdc = append(sdc, i)
		}
	}
	if len(sdc) == 1 {
		return nodes[sdc[0]], RuleMinDistance, nil
	}

	// Re-sum connectivity over the minimum-distance subset and take
	// the first index attaining the maximum.
	best := sdc[0]
	bestScore := adj.Degree(best)
	for _, k := range sdc[1:] {
		if score := adj.Degree(k); score > bestScore {
			best, bestScore = k, score
		}
	}
	return nodes[best], RuleSecondaryDegree, nil
}
