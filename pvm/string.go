package pvm

// MakeString boxes a copy of s. Strings are always NUL-terminated
// conceptually (spec.md §4.1's sizeof counts the trailing NUL); Go's
// string type already forbids embedded-NUL surprises for our purposes, so
// the terminator is accounted for only in SizeOf, not stored physically.
func (c *Context) MakeString(s string) Value {
	return c.allocBox(box{k: bkString, str: s})
}

// StringValue returns the string held by a TagBox/bkString Value.
func (c *Context) StringValue(v Value) string {
	return c.box(v).str
}
