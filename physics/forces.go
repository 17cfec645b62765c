package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// contribution is the force one node exerts on another in a single step
type contribution struct {
	vec        r2.Vec
	attractive float64 // signed magnitude along the unit direction
	repelling  float64 // signed magnitude along the unit direction
}

// attractive is c1·ln(d/c2). It is negative, i.e. pushes apart, below c2
func (c Config) attractive(distance float64) float64 {
	return c.Attraction * math.Log(distance/c.IdealDistance)
}

// repelling is -c3/d²
func (c Config) repelling(distance float64) float64 {
	return -c.Repulsion / math.Pow(distance, 2)
}

// pairForce returns the force dst exerts on src. Repulsion always applies;
// attraction only when the two nodes share an edge
func (c Config) pairForce(src, dst r2.Vec, adjacent bool) (contribution, error) {
	delta := r2.Sub(dst, src)
	distance := r2.Norm(delta)
	if distance == 0 {
		return contribution{}, ErrCoincidentNodes
	}
	unit := r2.Vec{X: delta.X / distance, Y: delta.Y / distance}

	push := c.repelling(distance)
	out := contribution{
		vec:       r2.Scale(push, unit),
		repelling: push,
	}

	if adjacent {
		pull := c.attractive(distance)
		out.vec = r2.Add(r2.Scale(pull, unit), out.vec)
		out.attractive = pull
	}

	return out, nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
