package pose

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of v and other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Quaternion defines a rotation, stored scalar-first (w, x, y, z).
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose describes a camera placement: a position plus an orientation.
// Poses are plain values, replaced wholesale and never partially mutated.
type Pose struct {
	Position Vector3    `json:"position"`
	Rotation Quaternion `json:"rotation"`
}
