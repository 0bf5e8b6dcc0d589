package models

// Resource is an owned record whose mutations are restricted to its owner.
// Boards and posts share the same ownership rules through it.
type Resource interface {
	OwnerID() uint
	Kind() string
	Label() string
}

var (
	_ Resource = (*Board)(nil)
	_ Resource = (*Post)(nil)
)
