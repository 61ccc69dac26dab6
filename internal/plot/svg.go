// Package plot renders a topology snapshot as an SVG image: stations
// and access points at their coordinates, APs with their coverage
// radius, wired infrastructure alongside.
package plot

import (
	"fmt"
	"io"

	"github.com/meshfabric/wmn-simulator/model"
)

const (
	margin      = 40.0
	nodeRadius  = 6.0
	labelOffset = 10.0
)

// WriteSVG renders the given nodes into w as a standalone SVG
// document. coverageRadius draws a dashed circle around each access
// point; pass 0 to omit coverage rings.
func WriteSVG(w io.Writer, nodes []model.NodeDefinition, coverageRadius float64) error {
	maxX, maxY := bounds(nodes, coverageRadius)

	width := maxX + 2*margin
	height := maxY + 2*margin

	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<rect width="100%%" height="100%%" fill="white"/>`+"\n"); err != nil {
		return err
	}

	// Coverage rings first so the node markers draw on top.
	if coverageRadius > 0 {
		for _, n := range nodes {
			if n.Kind != model.KindAccessPoint {
				continue
			}
			x, y := translate(n.Position, height)
			if _, err := fmt.Fprintf(w,
				`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#999" stroke-dasharray="4 3"/>`+"\n",
				x, y, coverageRadius); err != nil {
				return err
			}
		}
	}

	for _, n := range nodes {
		x, y := translate(n.Position, height)
		var err error
		switch n.Kind {
		case model.KindStation:
			_, err = fmt.Fprintf(w,
				`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#2b6cb0"/>`+"\n",
				x, y, nodeRadius)
		case model.KindAccessPoint:
			_, err = fmt.Fprintf(w,
				`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#c53030" stroke-width="2"/>`+"\n",
				x, y, nodeRadius)
		case model.KindSwitch:
			_, err = fmt.Fprintf(w,
				`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#2f855a"/>`+"\n",
				x-nodeRadius, y-nodeRadius, 2*nodeRadius, 2*nodeRadius)
		case model.KindHost:
			_, err = fmt.Fprintf(w,
				`<path d="M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f Z" fill="#6b46c1"/>`+"\n",
				x, y-nodeRadius, x+nodeRadius, y, x, y+nodeRadius, x-nodeRadius, y)
		default:
			continue
		}
		if err != nil {
			return err
		}
		label := n.Name
		if label == "" {
			label = n.ID
		}
		if _, err := fmt.Fprintf(w,
			`<text x="%.1f" y="%.1f" font-size="10" font-family="monospace">%s</text>`+"\n",
			x+labelOffset, y-labelOffset/2, label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "</svg>\n")
	return err
}

// translate maps topology coordinates (y grows upward) to SVG
// coordinates (y grows downward), with the configured margin.
func translate(p model.Position, height float64) (x, y float64) {
	return p.X + margin, height - (p.Y + margin)
}

func bounds(nodes []model.NodeDefinition, coverageRadius float64) (maxX, maxY float64) {
	for _, n := range nodes {
		x, y := n.Position.X, n.Position.Y
		if n.Kind == model.KindAccessPoint {
			x += coverageRadius
			y += coverageRadius
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return maxX, maxY
}
