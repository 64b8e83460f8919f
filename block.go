package emit

// A Block is a piece of template logic handed to an element or a component.  It is either a BlockFunc written by the
// caller, or a block that Compose has bound to the component that supplied it; no other implementations exist.
type Block interface {
	call(c *Context) any
}

// A BlockFunc is a block that either emits output through the context, or returns a string to be emitted as text.
// See Context.Content for how the two are told apart.
type BlockFunc func(c *Context) any

func (fn BlockFunc) call(c *Context) any { return fn(c) }

// Do adapts a function that only emits output into a Block.
func Do(fn func(c *Context)) Block {
	return BlockFunc(func(c *Context) any {
		fn(c)
		return nil
	})
}

// boundBlock is a block that belongs to the component that passed it into Compose.  When the nested component
// yields it, the block runs as its owner (so Yield, Component and Parent refer to the owner) while writing to
// whatever target the yielding context is currently writing to.
type boundBlock struct {
	owner *Context
	body  Block
}

func (b *boundBlock) call(c *Context) any {
	rebound := *b.owner
	rebound.s = c.s
	return b.body.call(&rebound)
}

// bind wraps a block for handing to a nested component, unless it is already bound.
func bind(owner *Context, body Block) Block {
	switch body := body.(type) {
	case nil:
		return nil
	case *boundBlock:
		return body
	default:
		return &boundBlock{owner, body}
	}
}
