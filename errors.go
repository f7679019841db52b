/*
 * errors.go, part of gopack
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package pack

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package wraps one of them,
// so callers can tell failures apart with errors.Is.
var (
	// ErrPrecondition marks a call made with missing or invalid input, detected
	// before any placement work starts.
	ErrPrecondition = errors.New("precondition violated")

	// ErrExhausted marks a generator that ran out of placement attempts.
	ErrExhausted = errors.New("placement attempts exhausted")

	// ErrNotGenerated is returned by accessors called before a successful Generate.
	ErrNotGenerated = errors.New("configuration not generated")
)

// Error is the general error type of the package. It satisfies Decorator.
// The kind field holds the sentinel the error unwraps to.
type Error struct {
	message  string
	deco     []string
	critical bool
	kind     error
}

func newError(kind error, caller, format string, args ...any) *Error {
	return &Error{message: fmt.Sprintf(format, args...), deco: []string{caller}, critical: true, kind: kind}
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	return fmt.Sprintf("goPack: %s: %s", err.kind, err.message)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the sentinel the error belongs to.
func (err *Error) Unwrap() error { return err.kind }

// ExhaustedError is returned by generators that could not place a cluster
// within their attempt ceiling. Every partial placement has been undone by
// the time it is returned.
type ExhaustedError struct {
	Generator string //a short description of the generator
	Attempts  int    //candidates tried for the failed cluster
	Ceiling   int
}

func (E *ExhaustedError) Error() string {
	return fmt.Sprintf("goPack: %s: %s gave up after %d attempts (ceiling %d)", ErrExhausted, E.Generator, E.Attempts, E.Ceiling)
}

func (E *ExhaustedError) Unwrap() error { return ErrExhausted }

// GenerationError identifies the registration, and the repetition within it,
// that made a whole Generate call fail.
type GenerationError struct {
	Registration int
	Repeat       int
	Err          error
}

func (E *GenerationError) Error() string {
	return fmt.Sprintf("goPack: generation failed at registration %d, repeat %d: %v", E.Registration, E.Repeat, E.Err)
}

func (E *GenerationError) Unwrap() error { return E.Err }

// errDecorate decorates err with the caller's name, if err is, or wraps, a
// *Error. Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
