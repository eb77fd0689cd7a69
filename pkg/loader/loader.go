package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/security"
)

// Loader resolves and invokes API modules below a root directory.
// It is safe for concurrent use; the root and runtimes are fixed at construction.
type Loader struct {
	root     string
	runtimes []Runtime
	logger   *slog.Logger
}

// New creates a Loader rooted at root.
// An empty root is accepted with a warning; every call then fails with
// core.ErrMissingConfig.
func New(root string, opts ...Option) *Loader {
	l := &Loader{
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(l)
	}

	if root == "" {
		l.logger.Warn("loader not given an api_root; API calls will fail until configured")
	}

	return l
}

// Root returns the configured API root.
func (l *Loader) Root() string {
	return l.root
}

// Runtimes returns the registered runtimes in probe order.
func (l *Loader) Runtimes() []Runtime {
	out := make([]Runtime, len(l.runtimes))
	copy(out, l.runtimes)
	return out
}

// Call resolves the module, invokes method on it and returns the raw result.
// An empty method selects core.DefaultMethod.
func (l *Loader) Call(ctx context.Context, version int, module, method string) (any, error) {
	h, err := l.Resolve(ctx, version, module)
	if err != nil {
		return nil, err
	}
	if c, ok := h.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				l.logger.Warn("failed to close handler", "module", module, "version", version, "error", cerr)
			}
		}()
	}

	return l.Invoke(ctx, h, method)
}

// Resolve locates the module source for version and loads its handler.
// A nil handler with a nil error means the source exists but does not
// define the canonical handler type.
func (l *Loader) Resolve(ctx context.Context, version int, module string) (core.Handler, error) {
	if l.root == "" {
		return nil, core.ErrMissingConfig
	}
	if err := security.ValidateVersion(version); err != nil {
		return nil, err
	}

	dir := filepath.Join(l.root, core.VersionDir(version))
	if !isDir(dir) {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidVersion, core.VersionDir(version))
	}

	if err := security.ValidateModuleName(module); err != nil {
		return nil, err
	}

	unit, rt, ok := l.locate(dir, version, module)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidModule, module)
	}

	h, err := rt.Load(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrLoadFailed, unit.Path, err)
	}
	if h == nil {
		l.logger.Debug("module source does not define handler type",
			"path", unit.Path, "type", unit.TypeName)
		return nil, nil
	}

	return h, nil
}

// locate probes each runtime's extension in order and returns the first
// existing module source.
func (l *Loader) locate(dir string, version int, module string) (Unit, Runtime, bool) {
	for _, rt := range l.runtimes {
		path := filepath.Join(dir, module+rt.Ext())
		if !isFile(path) {
			continue
		}
		return Unit{
			Path:     path,
			Version:  version,
			Module:   module,
			TypeName: core.HandlerTypeName(module),
		}, rt, true
	}
	return Unit{}, nil, false
}

// Invoke runs method on h and returns its result.
// An empty method selects core.DefaultMethod.
func (l *Loader) Invoke(ctx context.Context, h core.Handler, method string) (result any, err error) {
	if h == nil {
		return nil, core.ErrInvalidModuleOrVersion
	}

	name := method
	if name == "" {
		name = core.DefaultMethod
	} else if verr := security.ValidateMethodName(name); verr != nil {
		return nil, verr
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: panic: %v", core.ErrMethodFailed, name, r)
		}
	}()

	fn, ok := h.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidMethod, name)
	}

	result, err = fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMethodFailed, name, err)
	}
	return result, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
