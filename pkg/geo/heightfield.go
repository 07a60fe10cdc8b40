package geo

import "github.com/Faultbox/gpattern/pkg/math"

// Heightfield is a regular grid of heights in the XY plane. Heights is
// indexed [x][y]; the grid spans (len(Heights)-1)*CellSize along X and
// (len(Heights[0])-1)*CellSize along Y, starting at the origin. U runs
// along X and V along Y.
type Heightfield struct {
	Heights  [][]float32
	CellSize float32
}

// NewHeightfield returns a heightfield over heights, which must hold at
// least 2x2 samples of equal column length.
func NewHeightfield(heights [][]float32, cellSize float32) (*Heightfield, bool) {
	if len(heights) < 2 || len(heights[0]) < 2 || cellSize <= 0 {
		return nil, false
	}
	for _, col := range heights {
		if len(col) != len(heights[0]) {
			return nil, false
		}
	}
	return &Heightfield{Heights: heights, CellSize: cellSize}, true
}

func (h *Heightfield) cells() (nx, ny int) {
	return len(h.Heights) - 1, len(h.Heights[0]) - 1
}

// cell returns the cell containing (u,v), the position inside it and the
// four corner heights (00=SW, 10=SE, 01=NW, 11=NE).
func (h *Heightfield) cell(u, v float32) (fx, fy, h00, h10, h01, h11 float32) {
	nx, ny := h.cells()
	cfx := math.Clamp(u, 0, 1) * float32(nx)
	cfy := math.Clamp(v, 0, 1) * float32(ny)

	cx, cy := int(cfx), int(cfy)
	if cx >= nx {
		cx = nx - 1
	}
	if cy >= ny {
		cy = ny - 1
	}
	fx = math.Clamp(cfx-float32(cx), 0, 1)
	fy = math.Clamp(cfy-float32(cy), 0, 1)

	return fx, fy,
		h.Heights[cx][cy], h.Heights[cx+1][cy],
		h.Heights[cx][cy+1], h.Heights[cx+1][cy+1]
}

// EvaluatePosition returns the bilinearly interpolated grid point.
func (h *Heightfield) EvaluatePosition(u, v float32) math.Vec3 {
	fx, fy, h00, h10, h01, h11 := h.cell(u, v)
	south := h00*(1-fx) + h10*fx
	north := h01*(1-fx) + h11*fx

	nx, ny := h.cells()
	return math.Vec3{
		X: math.Clamp(u, 0, 1) * float32(nx) * h.CellSize,
		Y: math.Clamp(v, 0, 1) * float32(ny) * h.CellSize,
		Z: south*(1-fy) + north*fy,
	}
}

// EvaluateNormal returns ∂P/∂u × ∂P/∂v of the interpolated surface.
func (h *Heightfield) EvaluateNormal(u, v float32) math.Vec3 {
	fx, fy, h00, h10, h01, h11 := h.cell(u, v)

	nx, ny := h.cells()
	w := float32(nx) * h.CellSize
	d := float32(ny) * h.CellSize
	dhdu := float32(nx) * ((h10-h00)*(1-fy) + (h11-h01)*fy)
	dhdv := float32(ny) * ((h01-h00)*(1-fx) + (h11-h10)*fx)

	return math.Vec3{X: -d * dhdu, Y: -w * dhdv, Z: w * d}
}
