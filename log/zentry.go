package log

import (
	"io"
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level int

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// EntryZ is an allocation-free log entry. Fields are accumulated into a
// fixed-size buffer through the fluent setters and flushed by End().
// A nil *EntryZ (disabled module) is valid: every method is a no-op.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

var zpool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	z := zpool.Get().(*EntryZ)
	z.zfidx = 0
	return z
}

func (z *EntryZ) field(typ FieldType, key string) *ZField {
	if z.zfidx >= len(z.zfbuf) {
		return &ZField{}
	}
	f := &z.zfbuf[z.zfidx]
	z.zfidx++
	f.Type = typ
	f.Key = key
	return f
}

func (z *EntryZ) String(key, val string) *EntryZ {
	if z != nil {
		z.field(FieldTypeString, key).String = val
	}
	return z
}

func (z *EntryZ) Int(key string, val int) *EntryZ {
	if z != nil {
		z.field(FieldTypeInt, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Hex32(key string, val uint32) *EntryZ {
	if z != nil {
		z.field(FieldTypeHex32, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	if z != nil {
		z.field(FieldTypeError, key).Error = err
	}
	return z
}

// End flushes the entry to the logrus backend and recycles it.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.zfidx+1)
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().
		WithField("_mod", modNames[z.mod]).
		WithFields(fields)

	switch z.lvl {
	case PanicLevel:
		entry.Panic(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case DebugLevel:
		entry.Debug(z.msg)
	}
	zpool.Put(z)
}

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

// Disable turns off the logging backend altogether.
func Disable() {
	logrus.SetOutput(io.Discard)
}

// SetOutput redirects the logging backend.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}
