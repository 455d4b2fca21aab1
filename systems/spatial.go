package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// SpatialHash answers overlap queries against the world's collider entities
// using a dense 3D cell grid. Colliders are indexed by bounding box and may
// span several cells. Enabled flags are checked at query time, so toggling a
// collider needs no rebuild; moving one does.
type SpatialHash struct {
	cellSize float32
	origin   geom.Vec3
	cols     int
	rows     int
	layers   int
	cells    [][]ecs.Entity
	blockBuf []ecs.Entity // scratch for BlockedSphere

	filter *ecs.Filter1[components.Collider]
	colMap *ecs.Map1[components.Collider]
}

// NewSpatialHash creates a spatial hash covering the box from lo to hi.
func NewSpatialHash(w *ecs.World, lo, hi geom.Vec3, cellSize float32) *SpatialHash {
	cols := int((hi.X-lo.X)/cellSize) + 1
	rows := int((hi.Y-lo.Y)/cellSize) + 1
	layers := int((hi.Z-lo.Z)/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows*layers)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4) // pre-allocate small capacity
	}

	return &SpatialHash{
		cellSize: cellSize,
		origin:   lo,
		cols:     cols,
		rows:     rows,
		layers:   layers,
		cells:    cells,
		blockBuf: make([]ecs.Entity, 0, MaxQueryResults),
		filter:   ecs.NewFilter1[components.Collider](w),
		colMap:   ecs.NewMap1[components.Collider](w),
	}
}

// Rebuild re-indexes every collider entity in the world. Call after collider
// poses change (plants re-orienting between episodes), not on enable/disable.
func (h *SpatialHash) Rebuild() {
	for i := range h.cells {
		h.cells[i] = h.cells[i][:0]
	}

	query := h.filter.Query()
	for query.Next() {
		col := query.Get()
		lo, hi := col.Bounds()
		h.insert(query.Entity(), lo, hi)
	}
}

func (h *SpatialHash) insert(e ecs.Entity, lo, hi geom.Vec3) {
	c0, r0, l0 := h.cellCoords(lo)
	c1, r1, l1 := h.cellCoords(hi)

	for l := l0; l <= l1; l++ {
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				idx := (l*h.rows+r)*h.cols + c
				h.cells[idx] = append(h.cells[idx], e)
			}
		}
	}
}

// MaxQueryResults caps the number of colliders returned by overlap queries.
const MaxQueryResults = 64

// OverlapSphereInto appends every enabled collider entity touching a sphere
// at p onto dst (up to MaxQueryResults). Returns the updated slice. Reuse dst
// across calls to avoid allocations.
func (h *SpatialHash) OverlapSphereInto(dst []ecs.Entity, p geom.Vec3, radius float32) []ecs.Entity {
	return h.overlapSphere(dst, p, radius, false)
}

// BlockedSphere reports whether a sphere at p overlaps any enabled solid
// collider. Triggers do not block.
func (h *SpatialHash) BlockedSphere(p geom.Vec3, radius float32) bool {
	return len(h.overlapSphere(h.blockBuf[:0], p, radius, true)) > 0
}

func (h *SpatialHash) overlapSphere(dst []ecs.Entity, p geom.Vec3, radius float32, solidOnly bool) []ecs.Entity {
	r := geom.Vec3{X: radius, Y: radius, Z: radius}
	c0, r0, l0 := h.cellCoords(p.Sub(r))
	c1, r1, l1 := h.cellCoords(p.Add(r))

	for l := l0; l <= l1; l++ {
		for rr := r0; rr <= r1; rr++ {
			for c := c0; c <= c1; c++ {
				idx := (l*h.rows+rr)*h.cols + c
				for _, e := range h.cells[idx] {
					if containsEntity(dst, e) {
						continue // spans several cells, already recorded
					}
					col := h.colMap.Get(e)
					if col == nil || !col.Enabled {
						continue
					}
					if solidOnly && col.Trigger {
						continue
					}
					if !col.OverlapsSphere(p, radius) {
						continue
					}
					dst = append(dst, e)
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped grid coordinates for a world position.
func (h *SpatialHash) cellCoords(p geom.Vec3) (c, r, l int) {
	c = int((p.X - h.origin.X) / h.cellSize)
	r = int((p.Y - h.origin.Y) / h.cellSize)
	l = int((p.Z - h.origin.Z) / h.cellSize)

	c = clampInt(c, 0, h.cols-1)
	r = clampInt(r, 0, h.rows-1)
	l = clampInt(l, 0, h.layers-1)
	return c, r, l
}

func containsEntity(list []ecs.Entity, e ecs.Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
