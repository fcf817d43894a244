package tree

import (
	"errors"
	"fmt"
	"math"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/internal/format"
)

// CellRef is the virtual offset of a cell in the heap.
type CellRef = heap.CellRef

// Ref addresses a live node: its cell and the generation it was allocated
// with.
type Ref struct {
	Cell CellRef
	Gen  uint32
}

// Store owns the nodes of one value tree.
type Store struct {
	h    *heap.Heap
	a    alloc.Allocator
	opts Options

	// gen is the last generation handed out. Generations are never reused.
	gen uint32

	// live maps every allocated node cell to its generation.
	live map[CellRef]uint32

	// keys indexes each dict's entries: dict cell -> key -> entry index.
	keys map[CellRef]map[string]int
}

// New creates a store allocating from h.
func New(h *heap.Heap, opts Options) (*Store, error) {
	opts = opts.normalized()

	var (
		a   alloc.Allocator
		err error
	)
	switch opts.Strategy {
	case StrategyAppend:
		a, err = alloc.NewBump(h)
	case StrategyReuse:
		a, err = alloc.NewFreeList(h, opts.SizeClasses)
	default:
		return nil, fmt.Errorf("tree: unknown strategy %d", opts.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("tree: allocator: %w", err)
	}

	return &Store{
		h:    h,
		a:    a,
		opts: opts,
		live: make(map[CellRef]uint32),
		keys: make(map[CellRef]map[string]int),
	}, nil
}

// Heap returns the heap backing the store.
func (s *Store) Heap() *heap.Heap { return s.h }

// Options returns the normalized store options.
func (s *Store) Options() Options { return s.opts }

// Live reports whether ref addresses a node that still exists.
func (s *Store) Live(ref Ref) bool {
	gen, ok := s.live[ref.Cell]
	return ok && gen == ref.Gen
}

// NewSlot allocates an empty node. It becomes a concrete node through
// exactly one call to Construct or ConstructComposite.
func (s *Store) NewSlot() (Ref, error) {
	cell, _, err := s.newNode()
	if err != nil {
		return Ref{}, err
	}
	return Ref{Cell: cell, Gen: s.live[cell]}, nil
}

// Construct turns the empty slot into the scalar v.
func (s *Store) Construct(slot Ref, v Scalar) error {
	p, err := s.emptySlot(slot)
	if err != nil {
		return err
	}
	return s.initScalar(p, v)
}

// ConstructComposite turns the empty slot into an empty dict or list and
// returns the reference to populate it through.
func (s *Store) ConstructComposite(slot Ref, k Kind) (Ref, error) {
	if !k.Composite() {
		return Ref{}, fmt.Errorf("%w: %s is not composite", ErrWrongKind, k)
	}
	p, err := s.emptySlot(slot)
	if err != nil {
		return Ref{}, err
	}
	s.initComposite(slot.Cell, p, k)
	return slot, nil
}

// SetKey creates or overwrites the child of dict parent at key.
func (s *Store) SetKey(parent Ref, key string, v Scalar) error {
	p, err := s.composite(parent, KindDict)
	if err != nil {
		return err
	}
	child, err := s.newScalar(v)
	if err != nil {
		return err
	}
	return s.attachKey(parent.Cell, p, key, child)
}

// SetKeyComposite creates or overwrites the child of dict parent at key
// with an empty dict or list and returns a reference to it.
func (s *Store) SetKeyComposite(parent Ref, key string, k Kind) (Ref, error) {
	if !k.Composite() {
		return Ref{}, fmt.Errorf("%w: %s is not composite", ErrWrongKind, k)
	}
	p, err := s.composite(parent, KindDict)
	if err != nil {
		return Ref{}, err
	}
	child, err := s.newComposite(k)
	if err != nil {
		return Ref{}, err
	}
	if err := s.attachKey(parent.Cell, p, key, child); err != nil {
		return Ref{}, err
	}
	return Ref{Cell: child, Gen: s.live[child]}, nil
}

// SetElem creates or overwrites the child of list parent at pos. Positions
// past the end extend the list, leaving Null in the skipped positions.
func (s *Store) SetElem(parent Ref, pos int, v Scalar) error {
	if pos < 0 {
		return fmt.Errorf("%w: %d", ErrRange, pos)
	}
	if err := checkListPos(pos); err != nil {
		return err
	}
	p, err := s.composite(parent, KindList)
	if err != nil {
		return err
	}
	child, err := s.newScalar(v)
	if err != nil {
		return err
	}
	return s.attachElem(p, pos, child)
}

// SetElemComposite creates or overwrites the child of list parent at pos with
// an empty dict or list and returns a reference to it.
func (s *Store) SetElemComposite(parent Ref, pos int, k Kind) (Ref, error) {
	if !k.Composite() {
		return Ref{}, fmt.Errorf("%w: %s is not composite", ErrWrongKind, k)
	}
	if pos < 0 {
		return Ref{}, fmt.Errorf("%w: %d", ErrRange, pos)
	}
	if err := checkListPos(pos); err != nil {
		return Ref{}, err
	}
	p, err := s.composite(parent, KindList)
	if err != nil {
		return Ref{}, err
	}
	child, err := s.newComposite(k)
	if err != nil {
		return Ref{}, err
	}
	if err := s.attachElem(p, pos, child); err != nil {
		return Ref{}, err
	}
	return Ref{Cell: child, Gen: s.live[child]}, nil
}

// Reserve makes room for at least n children in the dict or list parent.
// Contents are unchanged.
func (s *Store) Reserve(parent Ref, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: reserve %d", ErrRange, n)
	}
	p, err := s.node(parent)
	if err != nil {
		return err
	}
	k := Kind(p[format.NodeKindOffset])
	if !k.Composite() {
		return fmt.Errorf("%w: reserve on %s", ErrWrongKind, k)
	}
	_, err = s.ensureCapacity(p, k, n)
	return err
}

// Discard frees the node at ref and its entire subtree. Any Ref into the
// subtree becomes stale.
func (s *Store) Discard(ref Ref) error {
	if _, err := s.node(ref); err != nil {
		return err
	}
	return s.free(ref.Cell)
}

// node returns the payload of the live node ref points at.
func (s *Store) node(ref Ref) ([]byte, error) {
	if !s.Live(ref) {
		return nil, fmt.Errorf("%w: 0x%X gen %d", ErrStale, ref.Cell, ref.Gen)
	}
	return s.payload(ref.Cell)
}

// payload returns and validates the node payload at cell.
func (s *Store) payload(cell CellRef) ([]byte, error) {
	p, err := s.h.Payload(cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := format.CheckNode(p); err != nil {
		return nil, fmt.Errorf("%w: 0x%X: %w", ErrCorrupt, cell, err)
	}
	return p, nil
}

func (s *Store) emptySlot(ref Ref) ([]byte, error) {
	p, err := s.node(ref)
	if err != nil {
		return nil, err
	}
	if k := Kind(p[format.NodeKindOffset]); k != KindEmpty {
		return nil, fmt.Errorf("%w: holds %s", ErrInitialized, k)
	}
	return p, nil
}

func (s *Store) composite(ref Ref, want Kind) ([]byte, error) {
	p, err := s.node(ref)
	if err != nil {
		return nil, err
	}
	if k := Kind(p[format.NodeKindOffset]); k != want {
		return nil, fmt.Errorf("%w: want %s, have %s", ErrWrongKind, want, k)
	}
	return p, nil
}

// newNode allocates an empty node stamped with a fresh generation.
func (s *Store) newNode() (CellRef, []byte, error) {
	cell, p, err := s.a.Alloc(format.NodeCellSize, alloc.ClassNode)
	if err != nil {
		return 0, nil, err
	}
	s.gen++
	if s.gen == 0 {
		s.gen++
	}
	copy(p, format.NodeSignature)
	p[format.NodeKindOffset] = format.NodeKindEmpty
	format.PutU32(p, format.NodeGenOffset, s.gen)
	s.live[cell] = s.gen
	return cell, p, nil
}

func (s *Store) newScalar(v Scalar) (CellRef, error) {
	cell, p, err := s.newNode()
	if err != nil {
		return 0, err
	}
	if err := s.initScalar(p, v); err != nil {
		return 0, errors.Join(err, s.free(cell))
	}
	return cell, nil
}

func (s *Store) newComposite(k Kind) (CellRef, error) {
	cell, p, err := s.newNode()
	if err != nil {
		return 0, err
	}
	s.initComposite(cell, p, k)
	return cell, nil
}

// initScalar writes v into an empty node payload. On failure the node is
// left empty.
func (s *Store) initScalar(p []byte, v Scalar) error {
	k := v.Kind()
	switch k {
	case KindNull:
	case KindBool:
		if v.Bool() {
			p[format.NodeScalarOffset] = 1
		}
	case KindInteger:
		format.PutI32(p, format.NodeScalarOffset, v.Int())
	case KindDouble:
		format.PutU64(p, format.NodeScalarOffset, math.Float64bits(v.Double()))
	case KindString:
		text, err := s.newText(v.Text())
		if err != nil {
			return err
		}
		format.PutU32(p, format.NodeTextOffset, text)
	default:
		return fmt.Errorf("%w: %s is not a scalar", ErrWrongKind, k)
	}
	p[format.NodeKindOffset] = uint8(k)
	return nil
}

func (s *Store) initComposite(cell CellRef, p []byte, k Kind) {
	p[format.NodeKindOffset] = uint8(k)
	format.PutU32(p, format.NodeCountOffset, 0)
	format.PutU32(p, format.NodeTableOffset, format.InvalidRef)
	if k == KindDict {
		s.keys[cell] = make(map[string]int)
	}
}

// attachKey stores child under key in the dict at cell. An existing child is
// replaced in its original position and its subtree discarded. On failure
// child is discarded.
func (s *Store) attachKey(cell CellRef, p []byte, key string, child CellRef) error {
	idx := s.keys[cell]
	if i, ok := idx[key]; ok {
		tp, err := s.table(p, KindDict)
		if err != nil {
			return errors.Join(err, s.free(child))
		}
		e := format.TableEntriesOffset + i*format.DictEntrySize + format.DictEntryChildOffset
		old := format.ReadU32(tp, e)
		format.PutU32(tp, e, child)
		return s.free(old)
	}

	n := int(format.ReadU32(p, format.NodeCountOffset))
	tp, err := s.ensureCapacity(p, KindDict, n+1)
	if err != nil {
		return errors.Join(err, s.free(child))
	}
	kref, err := s.newText(key)
	if err != nil {
		return errors.Join(err, s.free(child))
	}

	e := format.TableEntriesOffset + n*format.DictEntrySize
	format.PutU32(tp, e+format.DictEntryKeyOffset, kref)
	format.PutU32(tp, e+format.DictEntryChildOffset, child)
	format.PutU32(p, format.NodeCountOffset, uint32(n+1))
	idx[key] = n
	return nil
}

// attachElem stores child at pos in the list p, extending it with gaps when
// pos is past the end. On failure child is discarded.
func (s *Store) attachElem(p []byte, pos int, child CellRef) error {
	n := int(format.ReadU32(p, format.NodeCountOffset))
	if pos < n {
		tp, err := s.table(p, KindList)
		if err != nil {
			return errors.Join(err, s.free(child))
		}
		e := format.TableEntriesOffset + pos*format.ListEntrySize
		old := format.ReadU32(tp, e)
		format.PutU32(tp, e, child)
		if old == format.InvalidRef {
			return nil
		}
		return s.free(old)
	}

	tp, err := s.ensureCapacity(p, KindList, pos+1)
	if err != nil {
		return errors.Join(err, s.free(child))
	}
	for i := n; i < pos; i++ {
		format.PutU32(tp, format.TableEntriesOffset+i*format.ListEntrySize, format.InvalidRef)
	}
	format.PutU32(tp, format.TableEntriesOffset+pos*format.ListEntrySize, child)
	format.PutU32(p, format.NodeCountOffset, uint32(pos+1))
	return nil
}

// free releases the node at cell with its subtree, text and tables.
func (s *Store) free(cell CellRef) error {
	p, err := s.payload(cell)
	if err != nil {
		return err
	}

	var errs []error
	switch Kind(p[format.NodeKindOffset]) {
	case KindString:
		errs = append(errs, s.a.Free(format.ReadU32(p, format.NodeTextOffset)))
	case KindDict, KindList:
		errs = append(errs, s.freeChildren(p))
		delete(s.keys, cell)
	}

	clear(p[:format.SignatureSize])
	delete(s.live, cell)
	errs = append(errs, s.a.Free(cell))
	return errors.Join(errs...)
}

func (s *Store) freeChildren(p []byte) error {
	tref := format.ReadU32(p, format.NodeTableOffset)
	if tref == format.InvalidRef {
		return nil
	}
	k := Kind(p[format.NodeKindOffset])
	tp, err := s.table(p, k)
	if err != nil {
		return err
	}

	var errs []error
	n := int(format.ReadU32(p, format.NodeCountOffset))
	for i := range n {
		if k == KindDict {
			e := format.TableEntriesOffset + i*format.DictEntrySize
			errs = append(errs,
				s.a.Free(format.ReadU32(tp, e+format.DictEntryKeyOffset)),
				s.free(format.ReadU32(tp, e+format.DictEntryChildOffset)))
			continue
		}
		child := format.ReadU32(tp, format.TableEntriesOffset+i*format.ListEntrySize)
		if child != format.InvalidRef {
			errs = append(errs, s.free(child))
		}
	}
	errs = append(errs, s.a.Free(tref))
	return errors.Join(errs...)
}
