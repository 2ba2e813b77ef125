package kernel

// ResourceType names a resource tracked by a ResourceLimit. Only the
// subset the SVC layer actually reads/writes is modeled; svc.cpp's
// GetResourceLimit* SVCs accept a guest-chosen array of these.
type ResourceType uint32

const (
	ResourcePriority ResourceType = iota
	ResourceCommit
	ResourceThread
	ResourceEvent
	ResourceMutex
	ResourceSemaphore
	ResourceTimer
	ResourceSharedMemory
	ResourceAddressArbiter
	ResourceCPUTime
)

// ResourceLimit is a per-process cap on named resources, and the current
// usage against each cap.
type ResourceLimit struct {
	baseObject

	limits  map[ResourceType]int64
	current map[ResourceType]int64
}

// NewResourceLimit returns a ResourceLimit with no caps set: every
// resource reports a limit of 0 until SetLimit is called (the 3DS kernel
// in practice derives these from the process's exheader; callers of this
// package supply the values they want reported).
func NewResourceLimit() *ResourceLimit {
	return &ResourceLimit{
		baseObject: newBaseObject(KindResourceLimit, "resource-limit"),
		limits:     make(map[ResourceType]int64),
		current:    make(map[ResourceType]int64),
	}
}

// SetLimit sets the cap for a resource type.
func (r *ResourceLimit) SetLimit(t ResourceType, v int64) { r.limits[t] = v }

// GetMaxResourceValue returns the cap for a resource type, or 0 if unset.
func (r *ResourceLimit) GetMaxResourceValue(t ResourceType) int64 { return r.limits[t] }

// GetCurrentResourceValue returns the current usage for a resource type.
func (r *ResourceLimit) GetCurrentResourceValue(t ResourceType) int64 { return r.current[t] }

// AddCurrentResourceValue adjusts current usage by delta (may be negative
// to release).
func (r *ResourceLimit) AddCurrentResourceValue(t ResourceType, delta int64) {
	r.current[t] += delta
}
