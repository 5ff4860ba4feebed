package pose

import (
	"encoding/json"
	"fmt"
)

// Wire schema, one JSON object per datagram:
//
//	{
//	  "position": {"x": <number>, "y": <number>, "z": <number>},
//	  "rotation": {"w": <number>, "x": <number>, "y": <number>, "z": <number>}
//	}
//
// All fields are mandatory. Pointer fields let the decoder distinguish a
// missing field from a zero value.
type wireVector struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

type wireQuaternion struct {
	W *float64 `json:"w"`
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

type wireMessage struct {
	Position *wireVector     `json:"position"`
	Rotation *wireQuaternion `json:"rotation"`
}

// Decode parses a wire-format payload into a Pose. Malformed JSON and
// missing or wrong-typed fields are reported as errors; the payload is
// never partially applied.
func Decode(data []byte) (Pose, error) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Pose{}, fmt.Errorf("malformed pose message: %w", err)
	}

	if msg.Position == nil {
		return Pose{}, fmt.Errorf("pose message missing 'position'")
	}
	if msg.Rotation == nil {
		return Pose{}, fmt.Errorf("pose message missing 'rotation'")
	}
	if msg.Position.X == nil || msg.Position.Y == nil || msg.Position.Z == nil {
		return Pose{}, fmt.Errorf("pose message 'position' missing one of x, y, z")
	}
	if msg.Rotation.W == nil || msg.Rotation.X == nil || msg.Rotation.Y == nil || msg.Rotation.Z == nil {
		return Pose{}, fmt.Errorf("pose message 'rotation' missing one of w, x, y, z")
	}

	return Pose{
		Position: Vector3{X: *msg.Position.X, Y: *msg.Position.Y, Z: *msg.Position.Z},
		Rotation: Quaternion{W: *msg.Rotation.W, X: *msg.Rotation.X, Y: *msg.Rotation.Y, Z: *msg.Rotation.Z},
	}, nil
}

// Encode serializes a Pose into the wire format.
func Encode(p Pose) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pose: %w", err)
	}
	return data, nil
}
