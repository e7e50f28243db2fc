package core

// ChangeListener receives terrain deformation notifications. The rectangle
// is in world coordinates and covers every sample the deformation touched.
type ChangeListener interface {
	GroundChanged(x1, z1, x2, z2 float64)
}

// AddListener registers a listener for deformation events. Listeners are
// invoked synchronously from the goroutine applying the deformation.
func (g *Ground) AddListener(l ChangeListener) {
	g.listeners = append(g.listeners, l)
}

// RemoveListener unregisters a previously added listener.
func (g *Ground) RemoveListener(l ChangeListener) {
	for i, cur := range g.listeners {
		if cur == l {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}

func (g *Ground) notifyChanged(x1, z1, x2, z2 float64) {
	for _, l := range g.listeners {
		l.GroundChanged(x1, z1, x2, z2)
	}
}
