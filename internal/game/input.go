package game

// InputState is the host-owned input snapshot the engine reads once per tick.
// The engine never touches key events; whatever plumbing the host uses
// (browser bridge, REST endpoint, scripted run) collapses to these booleans.
type InputState struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`

	// Escape toggles pause. Held keys toggle once: the engine reacts to the
	// rising edge only.
	Escape bool `json:"escape"`
}

// Direction returns the normalized movement vector for the pressed keys.
// Opposite keys cancel; diagonals are unit length.
func (in InputState) Direction() Vector2 {
	var d Vector2
	if in.Up {
		d.Y -= 1
	}
	if in.Down {
		d.Y += 1
	}
	if in.Left {
		d.X -= 1
	}
	if in.Right {
		d.X += 1
	}
	return d.Normalize()
}
