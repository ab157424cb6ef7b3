package pgraph

import (
	"fmt"
	"regexp"
	"strconv"

	"nv2apretty/combiner"
	"nv2apretty/log"
)

// MalformedSequence reports an out-of-order or incomplete combiner
// register burst. It is recoverable: the partial accumulation is
// discarded, a diagnostic is emitted inline, and parsing resumes from the
// next line.
type MalformedSequence struct {
	Line     int
	Addr     uint32
	Expected uint32
	Reason   string
}

func (e *MalformedSequence) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: malformed combiner sequence: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: malformed combiner sequence: got 0x%04X, expected 0x%04X",
		e.Line, e.Addr, e.Expected)
}

// Events produced by the parser, one or zero per input line. Register
// writes belonging to a combiner burst are absorbed and only surface once
// the whole burst is decoded.
type (
	Event interface{ event() }

	// Passthrough is a line unrelated to the combiner.
	Passthrough struct{ Text string }

	// Labeled is a recognized register write that is not part of a
	// combiner burst (context registers, idle factor updates).
	Labeled struct {
		Text  string
		Label string
		Addr  uint32
		Value uint32
	}

	// Decoded carries a fully accumulated and decoded program.
	Decoded struct{ Program *combiner.Program }

	// Diagnostic carries a recoverable decode error at its original
	// stream position.
	Diagnostic struct {
		Line int
		Err  error
	}
)

func (Passthrough) event() {}
func (Labeled) event()     {}
func (Decoded) event()     {}
func (Diagnostic) event()  {}

// xemu pgraph method trace format:
//
//	nv2a_pgraph_method 0: 0x97 -> 0x0260 0x04200000
var methodRe = regexp.MustCompile(
	`nv2a_pgraph_method\s+(\d+):\s+0x([0-9A-Fa-f]+)\s+->\s+0x([0-9A-Fa-f]+)\s+0x([0-9A-Fa-f]+)`)

type state uint8

const (
	idle state = iota
	accumulating
)

// Parser is the line-by-line combiner accumulator. Lines must be fed
// strictly in stream order: the register sequence is positionally
// meaningful. A Parser holds no reference to anything outside itself, so
// independent streams can use independent Parsers concurrently.
type Parser struct {
	layout combiner.Layout

	state  state
	seqIdx int
	words  combiner.RegisterWords

	factor0    [combiner.MaxStages]uint32
	factor1    [combiner.MaxStages]uint32
	factorSeen bool

	fogEnable  bool
	specEnable bool

	line int
}

func NewParser(layout combiner.Layout) *Parser {
	return &Parser{layout: layout}
}

// Line consumes the next log line and returns the events it produced.
func (p *Parser) Line(text string) []Event {
	p.line++

	m := methodRe.FindStringSubmatch(text)
	if m == nil {
		return []Event{Passthrough{Text: text}}
	}
	var bad error
	hex32 := func(s string) uint32 {
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil && bad == nil {
			bad = err
		}
		return uint32(v)
	}
	class := hex32(m[2])
	addr := hex32(m[3])
	val := hex32(m[4])
	if bad != nil {
		return []Event{Diagnostic{Line: p.line,
			Err: fmt.Errorf("line %d: bad method word: %w", p.line, bad)}}
	}
	if class != ClassKelvin {
		return []Event{Passthrough{Text: text}}
	}

	if which, idx, ok := isFactorAddr(addr); ok {
		return p.factor(text, addr, val, which, idx)
	}

	switch addr {
	case AddrFogEnable:
		p.fogEnable = val != 0
		return []Event{Labeled{Text: text, Label: scalarLabels[addr], Addr: addr, Value: val}}
	case AddrSpecEnable:
		p.specEnable = val != 0
		return []Event{Labeled{Text: text, Label: scalarLabels[addr], Addr: addr, Value: val}}
	}

	if !isCombinerAddr(addr) {
		// Some other kelvin method, not ours to decode.
		return []Event{Passthrough{Text: text}}
	}
	return p.combinerWrite(text, addr, val)
}

func (p *Parser) factor(text string, addr, val uint32, which, idx int) []Event {
	if which == 0 {
		p.factor0[idx] = val
	} else {
		p.factor1[idx] = val
	}
	p.factorSeen = true
	if p.state == accumulating {
		// Part of the burst, surfaces in the decoded program constants.
		return nil
	}
	label, _ := registerLabel(addr)
	return []Event{Labeled{Text: text, Label: label, Addr: addr, Value: val}}
}

func (p *Parser) combinerWrite(text string, addr, val uint32) []Event {
	switch p.state {
	case idle:
		if addr != combinerSequence[0] {
			// Stray combiner write with no burst in flight. Annotate it and
			// move on; a single corrupted line must not smear diagnostics
			// over the tail of an aborted burst.
			label, _ := registerLabel(addr)
			return []Event{Labeled{Text: text, Label: label, Addr: addr, Value: val}}
		}
		p.words = combiner.RegisterWords{}
		p.factorSeen = false
		p.store(addr, val)
		p.seqIdx = 1
		p.state = accumulating
		log.ModStream.DebugZ("combiner burst started").Int("line", p.line).End()
		return nil

	case accumulating:
		if addr != combinerSequence[p.seqIdx] {
			expected := combinerSequence[p.seqIdx]
			p.state = idle
			log.ModStream.WarnZ("out of sequence combiner write").
				Hex32("addr", addr).
				Hex32("expected", expected).
				Int("line", p.line).
				End()
			return []Event{Diagnostic{Line: p.line, Err: &MalformedSequence{
				Line: p.line, Addr: addr, Expected: expected,
			}}}
		}
		p.store(addr, val)
		p.seqIdx++
		if p.seqIdx < len(combinerSequence) {
			return nil
		}
		p.state = idle
		return p.flushProgram()
	}
	return nil
}

// flushProgram decodes the completed word set. Decode errors are
// recoverable at the stream level: they surface as an inline diagnostic
// and the parser keeps going.
func (p *Parser) flushProgram() []Event {
	prog, err := p.words.Decode(p.layout)
	if err != nil {
		return []Event{Diagnostic{Line: p.line, Err: err}}
	}
	prog.Final.FogEnable = p.fogEnable
	prog.Final.SpecularAdd = p.specEnable
	if p.factorSeen {
		prog.Constant0 = p.factor0
		prog.Constant1 = p.factor1
		prog.HasConstants = true
	}
	log.ModStream.DebugZ("combiner program decoded").
		Int("stages", prog.Control.StageCount).
		Int("line", p.line).
		End()
	return []Event{Decoded{Program: prog}}
}

// Flush signals end of stream. A burst truncated by EOF is reported like
// any other malformed sequence.
func (p *Parser) Flush() []Event {
	if p.state != accumulating {
		return nil
	}
	p.state = idle
	return []Event{Diagnostic{Line: p.line, Err: &MalformedSequence{
		Line:   p.line,
		Reason: "log ended in the middle of a combiner burst",
	}}}
}

// store files an in-sequence register value into the word set.
func (p *Parser) store(addr, val uint32) {
	switch {
	case addr >= AddrAlphaICW && addr < AddrAlphaICW+regCount*regStride:
		p.words.AlphaICW[(addr-AddrAlphaICW)/regStride] = val
	case addr >= AddrAlphaOCW && addr < AddrAlphaOCW+regCount*regStride:
		p.words.AlphaOCW[(addr-AddrAlphaOCW)/regStride] = val
	case addr >= AddrColorICW && addr < AddrColorICW+regCount*regStride:
		p.words.ColorICW[(addr-AddrColorICW)/regStride] = val
	case addr >= AddrColorOCW && addr < AddrColorOCW+regCount*regStride:
		p.words.ColorOCW[(addr-AddrColorOCW)/regStride] = val
	case addr == AddrSpecFogCW0:
		p.words.FinalCW0 = val
	case addr == AddrSpecFogCW1:
		p.words.FinalCW1 = val
	case addr == AddrControl:
		p.words.Control = val
	}
}
