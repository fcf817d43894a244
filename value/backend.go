package value

// Handle is the opaque, pinned node reference marshaled across the boundary.
// Its fields mean nothing on this side.
type Handle struct {
	Ref uint32
	Gen uint32
}

// Backend is the call surface of the runtime that owns storage. Calls arrive
// in exactly the order they are issued. Every method panics with *Violation
// on a broken precondition and *Exhaustion when storage runs out.
type Backend interface {
	// Dict children, by key.
	SetNullKey(v Handle, key string)
	SetBoolKey(v Handle, key string, b bool)
	SetIntegerKey(v Handle, key string, i int32)
	SetDoubleKey(v Handle, key string, f float64)
	SetStringKey(v Handle, key string, s string)
	SetDictKey(v Handle, key string) Handle
	SetListKey(v Handle, key string) Handle

	// List children, by position.
	SetNullElement(v Handle, pos int)
	SetBoolElement(v Handle, pos int, b bool)
	SetIntegerElement(v Handle, pos int, i int32)
	SetDoubleElement(v Handle, pos int, f float64)
	SetStringElement(v Handle, pos int, s string)
	SetDictElement(v Handle, pos int) Handle
	SetListElement(v Handle, pos int) Handle

	// ReserveSize hints capacity for n children of a dict or list.
	ReserveSize(v Handle, n int)

	// Slot construction.
	ConstructNull(s Handle)
	ConstructBool(s Handle, b bool)
	ConstructInteger(s Handle, i int32)
	ConstructDouble(s Handle, f float64)
	ConstructString(s Handle, str string)
	ConstructDict(s Handle) Handle
	ConstructList(s Handle) Handle
}

// Inspector is the testing-only surface a Backend may also provide.
type Inspector interface {
	// NewSlot allocates a standalone empty slot.
	NewSlot() Handle

	// DumpSlot renders the node at s and everything below it.
	DumpSlot(s Handle) string
}

// Kind is the kind of a composite Value.
type Kind uint8

const (
	KindDict Kind = iota + 1
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindDict:
		return "dict"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}
