// Package gpio provides button input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Button reads the state of a single push-button.
type Button interface {
	// Pressed returns the logical button state.
	// The pin is active-low: electrically LOW = pressed.
	Pressed() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Defaults for the button line.
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 3
)
