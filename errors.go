package emit

import "errors"

var (
	// ErrUnsafeAttributeName is returned when an attribute name contains <, >, &, " or '.
	ErrUnsafeAttributeName = errors.New(`unsafe attribute name`)

	// ErrInvalidElement is returned when an element is given content it cannot hold, such as a void element with a
	// block, or a standard element given both content and a block.
	ErrInvalidElement = errors.New(`invalid element invocation`)

	// ErrNotAComponent is returned when Compose is asked to render something that does not implement Component.
	ErrNotAComponent = errors.New(`not a component`)

	// ErrUnsafeContent is returned when raw content for a comment, script or style contains its own terminator,
	// since HTML5 offers no way to escape it.
	ErrUnsafeContent = errors.New(`unsafe raw content`)
)
