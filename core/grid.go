package core

import (
	"fmt"

	"github.com/meshfabric/wmn-simulator/model"
)

// apGridSpacing is the distance between adjacent grid access points,
// in metres.
const apGridSpacing = 50.0

// BuildAccessPointGrid adds a rows×cols grid of access points to the
// network. AP k (1-based, row major) sits at ((col+1)·50, (row+1)·50),
// broadcasts SSID "apk-wlan0" on channel k in 802.11g mode.
func BuildAccessPointGrid(net *Network, rows, cols int) ([]*model.NodeDefinition, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil network", ErrBadInput)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions %dx%d", ErrBadInput, rows, cols)
	}

	aps := make([]*model.NodeDefinition, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			k := i*cols + j + 1
			def := &model.NodeDefinition{
				ID:      fmt.Sprintf("ap%d", k),
				Kind:    model.KindAccessPoint,
				SSID:    fmt.Sprintf("ap%d-wlan0", k),
				Channel: k,
				Mode:    "g",
				Position: model.Position{
					X: float64(j+1) * apGridSpacing,
					Y: float64(i+1) * apGridSpacing,
				},
			}
			if err := net.AddNode(def); err != nil {
				return nil, err
			}
			aps = append(aps, def)
		}
	}
	return aps, nil
}
