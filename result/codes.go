package result

// Success is the zero Code: every SVC handler that completes without error
// returns this.
const Success Code = 0

// Named sentinels for the abstract error kinds spec.md §6 enumerates.
// Values are taken from svc.cpp's ERR_* constants where the original names
// them explicitly; the rest follow the same (module, summary, level)
// convention the original uses for InvalidHandle/InvalidCombination/etc.
var (
	InvalidHandle        = New(101, ModuleKernel, SummaryWrongArgument, LevelPermanent)
	InvalidPointer       = New(0xE0C, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	InvalidAddress       = New(0xE0C1, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	InvalidAddressState  = New(0xE0E1, ModuleKernel, SummaryInvalidState, LevelPermanent)
	MisalignedAddress    = New(0x1F9, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	MisalignedSize       = New(0x1FA, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	InvalidCombination   = New(0x1F8, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	OutOfRange           = New(0x1F7, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	OutOfRangeKernel     = New(0x3E5, ModuleKernel, SummaryInvalidArgument, LevelUsage)
	NotAuthorized        = New(0x1F6, ModuleKernel, SummaryWrongArgument, LevelPermanent)
	NotFound             = New(0x1F4, ModuleKernel, SummaryNotFound, LevelPermanent)
	NotImplemented        = New(0x1E3, ModuleKernel, SummaryNotSupported, LevelPermanent)
	InvalidEnumValue     = New(0x1F2, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	PortNameTooLong      = New(0x1F1, ModuleKernel, SummaryInvalidArgument, LevelPermanent)
	SessionClosedByRemote = New(0x3E6, ModuleOS, SummaryCancelled, LevelStatus)
	Timeout              = New(0x192, ModuleKernel, SummaryWouldBlock, LevelStatus)

	// ProcessNotFound / ThreadNotFound are returned by OpenProcess / OpenThread
	// when the target id doesn't resolve to a live object. svc.cpp constructs
	// these inline as ResultCode(24, ErrorModule::OS, WrongArgument, Permanent)
	// and ResultCode(25, ...) rather than naming them, since they're distinct
	// from the generic InvalidHandle case (which fires when the *handle*
	// passed in doesn't resolve, as opposed to the *id* being searched for).
	ProcessNotFound = New(24, ModuleOS, SummaryWrongArgument, LevelPermanent)
	ThreadNotFound  = New(25, ModuleOS, SummaryWrongArgument, LevelPermanent)
)

// ReplyAndReceiveNoRendezvous is the sentinel ReplyAndReceive returns when
// called with zero handles and no reply was performed. The real kernel uses
// this raw value as a placeholder rather than a (module, summary, level)
// triple; svc.cpp returns it as a bare ResultCode(0xE7E3FFFF) literal.
var ReplyAndReceiveNoRendezvous = Raw(0xE7E3FFFF)
