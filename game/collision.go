package game

// Circle is the hit shape every entity carries: a centre and a radius.
type Circle struct {
	X, Y, R float64
}

// SqrDistance is the squared distance between two circle centres.
func SqrDistance(a, b Circle) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Overlaps reports whether two circles intersect. Touching counts as a hit.
func (c Circle) Overlaps(o Circle) bool {
	rr := c.R + o.R
	return SqrDistance(c, o) <= rr*rr
}
