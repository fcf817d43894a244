package bridge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/internal/logger"
	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/tree"
	"github.com/joshuapare/valuekit/value"
)

// Options configures a Container.
type Options struct {
	// Heap configures the arena.
	Heap heap.Options

	// Store configures the node runtime.
	Store tree.Options

	// CheckUTF8 validates keys and strings at the boundary.
	// Default: true
	CheckUTF8 bool

	// Record wraps the backend in a Recorder.
	// Default: false
	Record bool

	// Printer is used by String and DumpSlot.
	// Default: printer.DefaultOptions()
	Printer printer.Options
}

// DefaultOptions returns the recommended container options.
func DefaultOptions() Options {
	return Options{
		Heap:      heap.DefaultOptions(),
		Store:     tree.DefaultOptions(),
		CheckUTF8: true,
		Printer:   printer.DefaultOptions(),
	}
}

// Container owns one value tree: its heap, its store and its root slot.
// It is the provider that seeds construction passes and outlives them.
type Container struct {
	opts    Options
	h       *heap.Heap
	st      *tree.Store
	adapter *Adapter
	rec     *Recorder
	backend value.Backend

	root    tree.Ref
	hasRoot bool
	pass    *value.Pass
	closed  bool
}

// NewContainer creates an empty container.
func NewContainer(opts Options) (*Container, error) {
	h, err := heap.New(opts.Heap)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	st, err := tree.New(h, opts.Store)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("bridge: %w", err)
	}

	c := &Container{opts: opts, h: h, st: st}
	c.adapter = NewAdapter(st, opts.CheckUTF8)
	c.adapter.SetDumpOptions(opts.Printer)
	c.backend = c.adapter
	if opts.Record {
		c.rec = NewRecorder(c.adapter)
		c.backend = c.rec
	}
	return c, nil
}

// Backend returns the backend passes run against.
func (c *Container) Backend() value.Backend { return c.backend }

// Recorder returns the call recorder, or nil unless Options.Record is set.
func (c *Container) Recorder() *Recorder { return c.rec }

// Store returns the store holding the tree.
func (c *Container) Store() *tree.Store { return c.st }

// Root returns the root node reference and whether a root exists.
func (c *Container) Root() (tree.Ref, bool) { return c.root, c.hasRoot }

// Build allocates the root slot and runs fn as one construction pass. If the
// pass runs out of storage, the partial tree is discarded and the returned
// error wraps value.ErrExhausted; Build may then be called again.
// Contract violations inside fn are not recovered.
func (c *Container) Build(fn func(root value.Slot)) error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.hasRoot {
		return ErrBuilt
	}

	root, err := c.st.NewSlot()
	if err != nil {
		if IsExhaustion(err) {
			return fmt.Errorf("bridge: build: %w: %w", value.ErrExhausted, err)
		}
		return fmt.Errorf("bridge: build: %w", err)
	}
	c.root, c.hasRoot = root, true

	return c.run("build", func(p *value.Pass) {
		fn(value.NewSlot(c.backend, toHandle(root), p))
	})
}

// Update runs fn as a construction pass over the existing dict or list root.
// On exhaustion the whole tree is discarded, as with Build.
func (c *Container) Update(fn func(root value.Value)) error {
	if err := c.ready(); err != nil {
		return err
	}
	k, err := c.rootKind()
	if err != nil {
		return err
	}
	return c.run("update", func(p *value.Pass) {
		fn(value.Borrow(c.backend, toHandle(c.root), k, p))
	})
}

// Extend grants v, borrowed in the running pass, a lifetime beyond it.
func (c *Container) Extend(v value.Value) value.Lease {
	if c.pass == nil {
		value.Violate("extend", fmt.Errorf("%w: no pass running", value.ErrPassEnded))
	}
	return c.pass.Extend(v)
}

// Resume runs fn as a construction pass over a leased node.
func (c *Container) Resume(l value.Lease, fn func(v value.Value)) error {
	if err := c.ready(); err != nil {
		return err
	}
	if !c.hasRoot {
		return ErrNoRoot
	}
	if !l.IssuedBy(c.backend) {
		value.Violate("resume", fmt.Errorf("%w: lease was not issued by this container", value.ErrInvalid))
	}
	return c.run("resume", func(p *value.Pass) {
		fn(l.Borrow(p))
	})
}

// Reset discards the tree so the container can be built again.
func (c *Container) Reset() error {
	if err := c.ready(); err != nil {
		return err
	}
	if !c.hasRoot {
		return nil
	}
	err := c.st.Discard(c.root)
	c.root, c.hasRoot = tree.Ref{}, false
	if err != nil {
		return fmt.Errorf("bridge: reset: %w", err)
	}
	return nil
}

// Dump writes the tree to w.
func (c *Container) Dump(w io.Writer, opts printer.Options) error {
	if c.closed {
		return ErrClosed
	}
	if !c.hasRoot {
		return ErrNoRoot
	}
	return printer.New(c.st, w, opts).Print(c.root.Cell)
}

// String renders the tree with Options.Printer. It returns "<none>" before
// Build and the error text if rendering fails.
func (c *Container) String() string {
	var sb strings.Builder
	if err := c.Dump(&sb, c.opts.Printer); err != nil {
		if errors.Is(err, ErrNoRoot) {
			return "<none>"
		}
		return err.Error()
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Materialize copies the tree into plain Go values (see tree.Materialize).
func (c *Container) Materialize() (any, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if !c.hasRoot {
		return nil, ErrNoRoot
	}
	return c.st.Materialize(c.root.Cell)
}

// Stats reports node and storage usage.
func (c *Container) Stats() tree.Stats { return c.st.Stats() }

// Close releases all storage. References into the tree must not be used
// afterwards.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.hasRoot = false
	return c.h.Close()
}

func (c *Container) ready() error {
	if c.closed {
		return ErrClosed
	}
	if c.pass != nil {
		return ErrBusy
	}
	return nil
}

func (c *Container) rootKind() (value.Kind, error) {
	if !c.hasRoot {
		return 0, ErrNoRoot
	}
	info, err := c.st.Stat(c.root.Cell)
	if err != nil {
		return 0, fmt.Errorf("bridge: %w", err)
	}
	switch info.Kind {
	case tree.KindDict:
		return value.KindDict, nil
	case tree.KindList:
		return value.KindList, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotComposite, info.Kind)
	}
}

// run executes fn as one pass. Exhaustion ends the pass and discards the
// tree; any other panic propagates after the pass is ended.
func (c *Container) run(op string, fn func(p *value.Pass)) error {
	p := value.NewPass()
	c.pass = p
	defer func() {
		p.End()
		c.pass = nil
	}()

	logger.Debug("bridge: pass begin", "op", op, "pass", p.ID())
	if err := guard(p, fn); err != nil {
		logger.Debug("bridge: pass aborted", "op", op, "pass", p.ID(), "error", err)
		if derr := c.discard(); derr != nil {
			err = errors.Join(err, derr)
		}
		return fmt.Errorf("bridge: %s: %w", op, err)
	}
	logger.Debug("bridge: pass end", "op", op, "pass", p.ID())
	return nil
}

func guard(p *value.Pass, fn func(p *value.Pass)) (err error) {
	defer value.RecoverExhaustion(&err)
	fn(p)
	return nil
}

func (c *Container) discard() error {
	if !c.hasRoot {
		return nil
	}
	err := c.st.Discard(c.root)
	c.root, c.hasRoot = tree.Ref{}, false
	return err
}
