package kernel

// Handle is an opaque 32-bit token scoped to a single process's handle
// table. Guest code never sees the underlying kernel object, only this
// token.
type Handle uint32

// Reserved self-reference handles: a thread may pass these to any SVC that
// accepts a handle and have them resolve to the calling process/thread
// without ever having created a real table entry for them.
const (
	CurrentProcess Handle = 0xFFFF8001
	CurrentThread  Handle = 0xFFFF8000
)

// InvalidHandleValue is the zero handle; HandleTable never hands this out.
const InvalidHandleValue Handle = 0
