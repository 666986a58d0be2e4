// Package guard provides the constructor guard used by domain objects, commands and
// queries to reject zero-value instances that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the caller
// passes a nil error and the guarded object was not constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as created through its designated constructor.
// Embed it as a private field, set it with NewConstructorGuard in the constructor
// and call Validate from the owner's Validate method.
//
// Example:
//
//	type Slot struct {
//	    at    time.Time
//	    guard guard.ConstructorGuard
//	}
//
//	func NewSlot(at time.Time) Slot {
//	    return Slot{at: at, guard: guard.NewConstructorGuard()}
//	}
//
//	func (s Slot) Validate() error {
//	    return s.guard.Validate(ErrSlotIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard flagged as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) if the
// guard is a zero value; nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
