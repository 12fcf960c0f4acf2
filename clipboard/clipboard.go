package clipboard

import (
	"github.com/atotto/clipboard"
)

// Clipboard writes text to a clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// System is the desktop clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API, depending on the platform)
type System struct{}

// WriteAll copies text to the system clipboard
func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a system clipboard utility was found
func Available() bool {
	return !clipboard.Unsupported
}
