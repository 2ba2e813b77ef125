package kernel

// Kind tags the variant of a kernel Object, standing in for the source's
// dynamic-cast-based polymorphism (spec.md Design Notes §9: "model as a
// tagged sum over object variants with a shared refcount + handle-kind
// header").
type Kind int

const (
	KindProcess Kind = iota
	KindThread
	KindEvent
	KindMutex
	KindSemaphore
	KindTimer
	KindAddressArbiter
	KindSharedMemory
	KindServerPort
	KindClientPort
	KindServerSession
	KindClientSession
	KindResourceLimit
)

func (k Kind) String() string {
	switch k {
	case KindProcess:
		return "Process"
	case KindThread:
		return "Thread"
	case KindEvent:
		return "Event"
	case KindMutex:
		return "Mutex"
	case KindSemaphore:
		return "Semaphore"
	case KindTimer:
		return "Timer"
	case KindAddressArbiter:
		return "AddressArbiter"
	case KindSharedMemory:
		return "SharedMemory"
	case KindServerPort:
		return "ServerPort"
	case KindClientPort:
		return "ClientPort"
	case KindServerSession:
		return "ServerSession"
	case KindClientSession:
		return "ClientSession"
	case KindResourceLimit:
		return "ResourceLimit"
	default:
		return "Unknown"
	}
}

// Object is the capability every kernel object implements: a handle-kind
// tag and a reference count. HandleTable.Close decrements it; the object
// is destroyed once it reaches zero and nothing else (a waiter list, most
// commonly) still holds a strong reference.
type Object interface {
	Kind() Kind
	Name() string

	// refs exposes the bookkeeping HandleTable and waiter lists share;
	// unexported so only this package can hold a strong reference.
	incRef()
	decRef() int32
	refCount() int32
}

// baseObject is embedded by every concrete kernel object to provide the
// Object refcount plumbing, mirroring the shared "refcount + handle-kind
// header" spec.md calls for.
type baseObject struct {
	kind Kind
	name string
	refs int32
}

func newBaseObject(kind Kind, name string) baseObject {
	return baseObject{kind: kind, name: name, refs: 1}
}

func (b *baseObject) Kind() Kind       { return b.kind }
func (b *baseObject) Name() string     { return b.name }
func (b *baseObject) incRef()          { b.refs++ }
func (b *baseObject) decRef() int32    { b.refs--; return b.refs }
func (b *baseObject) refCount() int32  { return b.refs }
