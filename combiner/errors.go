package combiner

import "fmt"

// StageFinal marks errors coming from the final combiner rather than from
// one of the numbered stages.
const StageFinal = -1

// UnknownFieldCode reports a bitfield value that has no entry in the
// hardware tables. It carries enough context to reproduce the failure from
// the diagnostic alone.
type UnknownFieldCode struct {
	Field string
	Stage int // StageFinal for the final combiner
	Chan  Channel
	Value uint32
}

func (e *UnknownFieldCode) Error() string {
	where := fmt.Sprintf("stage %d %s", e.Stage, e.Chan)
	if e.Stage == StageFinal {
		where = "final combiner"
	}
	return fmt.Sprintf("%s: unknown code 0x%X in %s field", where, e.Value, e.Field)
}

// UnsupportedLayoutVariant reports a final combiner layout selection the
// decoder does not implement. This is a configuration error, not a data
// error, and is surfaced immediately.
type UnsupportedLayoutVariant struct {
	Variant string
}

func (e *UnsupportedLayoutVariant) Error() string {
	return fmt.Sprintf("unsupported final combiner layout variant %q", e.Variant)
}
