package loader

import (
	"context"

	"github.com/jdziat/apigen/pkg/core"
)

// Unit describes a module source unit located on disk.
type Unit struct {
	// Path is the module source file.
	Path string
	// Version is the API version the unit was found under.
	Version int
	// Module is the requested module name.
	Module string
	// TypeName is the canonical handler type name, core.HandlerTypeName(Module).
	TypeName string
}

// Runtime loads module source units of one kind.
type Runtime interface {
	// Ext returns the source file extension handled by this runtime, including the dot.
	Ext() string

	// Load loads the unit and instantiates its handler type.
	// A nil handler with a nil error means the unit does not define the type.
	Load(ctx context.Context, unit Unit) (core.Handler, error)
}
