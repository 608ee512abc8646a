// Package param provides thread-safe, allocation-free parameter storage
// shared by every hosted plugin Instance, grounded on the teacher's
// param.Manager/Parameter (atomic float64 storage behind a validating
// setter). Info's fields are renamed to match §4.1's parameter_info
// shape exactly: {id, title, short_title, units, step_count,
// default_normalised, unit_id, flags}.
package param

import (
	"errors"
	"unsafe"
)

// Common parameter errors.
var (
	ErrInvalidParam         = errors.New("invalid parameter ID")
	ErrListenerLimitReached = errors.New("parameter listener limit reached")
	ErrValueBelowMinimum    = errors.New("value below minimum")
	ErrValueAboveMaximum    = errors.New("value above maximum")
	ErrParamExists          = errors.New("parameter ID already exists")
)

// MaxListeners is the maximum number of parameter change listeners per Manager.
const MaxListeners = 16

// Flags describe a parameter's capabilities and constraints.
const (
	FlagAutomatable  uint32 = 1 << 0
	FlagModulatable  uint32 = 1 << 1
	FlagStepped      uint32 = 1 << 2
	FlagReadonly     uint32 = 1 << 3
	FlagHidden       uint32 = 1 << 4
	FlagBypass       uint32 = 1 << 5
	FlagBoundedBelow uint32 = 1 << 6
	FlagBoundedAbove uint32 = 1 << 7
)

// Info is the parameter metadata returned by parameter_info(id, index) in §4.1.
type Info struct {
	ID                uint32
	Title             string
	ShortTitle        string
	Units             string
	StepCount         uint32 // 0 for continuous parameters
	MinValue          float64
	MaxValue          float64
	DefaultValue      float64
	DefaultNormalised float64 // (DefaultValue-MinValue)/(MaxValue-MinValue), precomputed at Register time
	UnitID            int32
	Flags             uint32
}

// Parameter is a single plugin parameter with lock-free value access.
type Parameter struct {
	Info      Info
	atomic    AtomicFloat64
	validator func(float64) error
}

// Value returns the current value atomically.
func (p *Parameter) Value() float64 {
	return p.atomic.Load()
}

// Normalised returns the current value mapped to 0..1 using the
// parameter's declared range.
func (p *Parameter) Normalised() float64 {
	span := p.Info.MaxValue - p.Info.MinValue
	if span == 0 {
		return 0
	}
	return (p.Value() - p.Info.MinValue) / span
}

// SetValue validates and atomically stores value.
func (p *Parameter) SetValue(value float64) error {
	if p.validator != nil {
		if err := p.validator(value); err != nil {
			return err
		}
	}
	p.atomic.Store(value)
	return nil
}

func floatToBits(f float64) int64 {
	return int64(*(*uint64)(unsafe.Pointer(&f)))
}

func bitsToFloat(b int64) float64 {
	return *(*float64)(unsafe.Pointer(&b))
}
