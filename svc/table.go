package svc

// Table is the fixed SVC number -> handler mapping (spec.md §6's "SVC
// number table", 0x00-0xB3). Numbers the original firmware defines but
// this layer has no behavior for (thread/process affinity masks, the
// deprecated SignalAndWait, debug-only introspection beyond what
// SPEC_FULL.md's supplements call for) are left out of the map entirely;
// Dispatch's fallback for a missing entry logs and returns control to the
// guest without touching registers, so omission here *is* "log-and-no-op"
// rather than a gap to fill in later.
var Table = map[uint32]HandlerFunc{
	0x01: svcControlMemory,
	0x02: svcQueryMemory,
	0x03: svcExitProcess,

	0x08: svcCreateThread,
	0x09: svcExitThread,
	0x0A: svcSleepThread,
	0x0B: svcGetThreadPriority,
	0x0C: svcSetThreadPriority,

	0x13: svcCreateMutex,
	0x14: svcReleaseMutex,
	0x15: svcCreateSemaphore,
	0x16: svcReleaseSemaphore,
	0x17: svcCreateEvent,
	0x18: svcSignalEvent,
	0x19: svcClearEvent,
	0x1A: svcCreateTimer,
	0x1B: svcSetTimer,
	0x1C: svcCancelTimer,
	0x1D: svcClearTimer,
	0x1E: svcCreateMemoryBlock,
	0x1F: svcMapMemoryBlock,
	0x20: svcUnmapMemoryBlock,
	0x21: svcCreateAddressArbiter,
	0x22: svcArbitrateAddress,
	0x23: svcCloseHandle,
	0x24: svcWaitSynchronization1,
	0x25: svcWaitSynchronizationN,

	0x27: svcDuplicateHandle,
	0x28: svcGetSystemTick,
	0x29: svcGetHandleInfo,
	0x2A: svcGetSystemInfo,
	0x2B: svcGetProcessInfo,
	0x2C: svcGetThreadInfo,

	0x2D: svcConnectToPort,

	0x32: svcSendSyncRequest,
	0x33: svcOpenProcess,
	0x34: svcOpenThread,
	0x35: svcGetProcessId,
	0x36: svcGetProcessIdOfThread,
	0x37: svcGetThreadId,
	0x38: svcGetResourceLimit,
	0x39: svcGetResourceLimitLimitValues,
	0x3A: svcGetResourceLimitCurrentValues,

	0x3C: svcBreak,
	0x3D: svcOutputDebugString,

	0x47: svcCreatePort,
	0x48: svcCreateSessionToPort,
	0x49: svcCreateSession,
	0x4A: svcAcceptSession,

	0x4F: svcReplyAndReceive,

	0x65: svcGetProcessList,

	0x7C: svcKernelSetState,
	0x7D: svcQueryProcessMemory,

	0x90: svcConvertVaToPa,

	0x93: svcInvalidateInstructionCacheRange,
	0x94: svcInvalidateEntireInstructionCache,

	0xA0: svcMapProcessMemoryEx,
	0xA1: svcUnmapProcessMemoryEx,

	0xB3: svcControlProcess,
}
