// Package guard detects value objects and commands that were created as zero
// values instead of through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in structs whose zero value is meaningless.
// Only NewConstructorGuard sets the flag, so a struct literal fails Validate.
//
// Example usage:
//
//	type AcceptCargoCommand struct {
//	    driverID kernel.UUID
//	    cargoID  kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c AcceptCargoCommand) Validate() error {
//	    return c.guard.Validate(ErrAcceptCargoCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
