package mesh

import (
	"errors"

	"github.com/soypat/geometry/md3"
)

// NearestNeighborIndex answers nearest-vertex queries over a fixed point
// set. Build runs once over the fixed mesh; Nearest runs per moving vertex.
// Implementations must return exactly the point a linear scan in identifier
// order would: minimum squared Euclidean distance, with ties resolved to
// the first-encountered (lowest) identifier. Anything approximate or with a
// different tie rule breaks the deterministic-rebuild guarantee.
type NearestNeighborIndex interface {
	Build(points []md3.Vec) error
	Nearest(p md3.Vec) (nearest md3.Vec, squaredDist float64, err error)
}

// BruteForceIndex is the reference exhaustive-scan index. O(M) per query.
type BruteForceIndex struct {
	points []md3.Vec
}

// Build loads the fixed point set. The previous contents are replaced.
func (idx *BruteForceIndex) Build(points []md3.Vec) error {
	if len(points) == 0 {
		return errors.New("nearest neighbor index: empty point set")
	}
	idx.points = append(idx.points[:0:0], points...)
	return nil
}

// Nearest scans every indexed point and keeps the minimum squared distance.
// Strict less-than keeps the first point on exact ties.
func (idx *BruteForceIndex) Nearest(p md3.Vec) (md3.Vec, float64, error) {
	if len(idx.points) == 0 {
		return md3.Vec{}, 0, errors.New("nearest neighbor index: not built")
	}
	nearest := idx.points[0]
	minDist := squaredDistance(idx.points[0], p)
	for _, q := range idx.points[1:] {
		if d := squaredDistance(q, p); d < minDist {
			minDist = d
			nearest = q
		}
	}
	return nearest, minDist, nil
}

// squaredDistance returns the squared Euclidean distance between two points
func squaredDistance(a, b md3.Vec) float64 {
	d := md3.Sub(a, b)
	return md3.Dot(d, d)
}
