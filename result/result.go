// Package result implements the 3DS kernel's packed ResultCode value.
//
// A Code is not a Go error: it is a 32-bit bitfield (description, module,
// summary, level) that guest code inspects directly after it comes back in
// r0. Success is always the zero value so that `if code != result.Success`
// reads the way guest code's `if (R_FAILED(res))` does.
package result

import "fmt"

// Code is the packed value SVC handlers return and ArgMarshal writes into
// r0. The layout mirrors the one `svc.cpp` builds by hand via
// `ResultCode(description, module, summary, level)`:
//
//	bits 0-9:   description
//	bits 10-20: module
//	bits 21-26: summary
//	bits 27-31: level
type Code uint32

// Module identifies the subsystem that produced a Code.
type Module uint32

// Modules used by the SVC layer. Numbering matches the 3DS kernel's
// module table as referenced in svc.cpp (ErrorModule::OS, ::Kernel).
const (
	ModuleCommon Module = 0
	ModuleKernel Module = 3
	ModuleOS     Module = 26
)

// Summary is the coarse outcome class of a Code.
type Summary uint32

const (
	SummarySuccess        Summary = 0
	SummaryNothingHappened Summary = 1
	SummaryWouldBlock     Summary = 2
	SummaryOutOfResource  Summary = 3
	SummaryNotFound       Summary = 4
	SummaryWrongArgument  Summary = 5
	SummaryCancelled      Summary = 6
	SummaryInvalidState   Summary = 7
	SummaryNotSupported   Summary = 8
	SummaryInvalidArgument Summary = 9
)

// Level is the severity of a Code.
type Level uint32

const (
	LevelSuccess   Level = 0
	LevelInfo      Level = 1
	LevelStatus    Level = 25
	LevelTemporary Level = 26
	LevelPermanent Level = 27
	LevelUsage     Level = 31
)

// New packs a ResultCode from its four fields, matching the bit layout
// svc.cpp constructs by hand.
func New(description uint32, module Module, summary Summary, level Level) Code {
	return Code(description&0x3FF) |
		Code(uint32(module)&0x7FF)<<10 |
		Code(uint32(summary)&0x3F)<<21 |
		Code(uint32(level)&0x1F)<<27
}

// Raw wraps an already-packed 32-bit value, for sentinels that don't follow
// the four-field convention (e.g. the ReplyAndReceive placeholder 0xE7E3FFFF).
func Raw(v uint32) Code { return Code(v) }

// Description returns the packed description field.
func (c Code) Description() uint32 { return uint32(c) & 0x3FF }

// Module returns the packed module field.
func (c Code) Module() Module { return Module(uint32(c)>>10) & 0x7FF }

// Summary returns the packed summary field.
func (c Code) Summary() Summary { return Summary(uint32(c)>>21) & 0x3F }

// Level returns the packed level field.
func (c Code) Level() Level { return Level(uint32(c)>>27) & 0x1F }

// IsSuccess reports whether c represents success. Only the exact zero value
// does; this matches the kernel convention that any nonzero code is a
// failure code even if its fields look benign.
func (c Code) IsSuccess() bool { return c == Success }

// IsError is the complement of IsSuccess, named to mirror ResultCode::IsError
// call sites carried over from svc.cpp (`if (result.IsError()) return result`).
func (c Code) IsError() bool { return c != Success }

// Error implements the error interface so a Code can be returned from Go
// functions that need to interoperate with error-returning code (notably
// the IPCTranslator contract), without losing its packed representation.
func (c Code) Error() string {
	return fmt.Sprintf("result 0x%08X (module=%d summary=%d level=%d desc=%d)",
		uint32(c), c.Module(), c.Summary(), c.Level(), c.Description())
}
