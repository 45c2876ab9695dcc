package display

// Touch reports the current contact point of the touch panel in display
// pixel coordinates.
type Touch interface {
	// Contact returns the contact point; ok is false when untouched.
	Contact() (x, y int, ok bool)
	Close() error
}

// NoTouch is a Touch that is never touched.
type NoTouch struct{}

// Contact always reports no contact.
func (NoTouch) Contact() (int, int, bool) { return 0, 0, false }

// Close does nothing.
func (NoTouch) Close() error { return nil }
