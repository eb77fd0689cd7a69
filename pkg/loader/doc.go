// Package loader resolves API modules from the filesystem and invokes their operations.
//
// Module sources live under a configured root:
//
//	{root}/v{version}/{module}{ext}
//
// where ext is the file extension of a registered Runtime. Resolution
// checks the version directory, then the module source, then asks the
// runtime to load the unit and instantiate the handler type
// Api_{module}. Invocation picks the requested operation, or the
// _index default entry when no method is named.
//
// A Loader keeps no state between calls: every Call loads the module
// afresh and discards the handler before returning.
package loader
