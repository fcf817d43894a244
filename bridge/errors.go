package bridge

import "errors"

var (
	// ErrBadUTF8 indicates text that is not valid UTF-8 crossing the boundary.
	ErrBadUTF8 = errors.New("bridge: invalid utf-8")

	// ErrBuilt indicates Build on a container whose root already exists.
	ErrBuilt = errors.New("bridge: container already built")

	// ErrNoRoot indicates an operation that needs a root before Build.
	ErrNoRoot = errors.New("bridge: container has no root")

	// ErrNotComposite indicates Update on a root that is not a dict or list.
	ErrNotComposite = errors.New("bridge: root is not a dict or list")

	// ErrBusy indicates a pass started while another is running.
	ErrBusy = errors.New("bridge: pass already running")

	// ErrClosed indicates use of a closed container.
	ErrClosed = errors.New("bridge: container closed")
)
