package particles

// Mode selects which interaction force the hand applies to the leaves.
type Mode int

const (
	// ModeWind pushes leaves away from every fingertip.
	ModeWind Mode = iota
	// ModeMagnetic pulls leaves into an orbit around the index-finger cursor.
	ModeMagnetic
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeWind:
		return "WIND"
	case ModeMagnetic:
		return "MAGNETIC"
	default:
		return "UNKNOWN"
	}
}
