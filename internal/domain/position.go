package domain

// Position is a canvas coordinate used by the rendering frontend.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}
