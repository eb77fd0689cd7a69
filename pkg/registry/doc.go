// Package registry provides compiled-in API modules.
//
// Go handlers are registered explicitly per API version under their
// canonical type name (Api_{module}). A module is deployed for a version
// by placing an empty marker file {module}.native in that version's
// directory; the registry's Runtime then instantiates the registered
// factory when the loader finds the marker.
//
//	reg := registry.New()
//	reg.MustRegister(1, "users", registry.Struct(func() any { return &UsersV1{} }))
//	l := loader.New(root, loader.WithRuntime(reg.Runtime()))
package registry
