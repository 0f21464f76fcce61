package dnacalib

import (
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/dna"
)

// Command is a single edit of a document.
type Command interface {
	Run(d *dna.DNA) error
}

// CommandFunc adapts a function to Command. Func values are not comparable,
// so Remove and Contains never match a CommandFunc added by value. Add a
// pointer to one to keep a handle:
//
//	cmd := dnacalib.CommandFunc(fn)
//	seq.Add(&cmd)
//	seq.Remove(&cmd)
type CommandFunc func(d *dna.DNA) error

// Run calls f(d).
func (f CommandFunc) Run(d *dna.DNA) error { return f(d) }

// Sequence runs commands in insertion order.
type Sequence struct {
	commands []Command
}

// NewSequence returns a sequence holding commands.
func NewSequence(commands ...Command) *Sequence {
	s := &Sequence{}
	s.Add(commands...)
	return s
}

// Add appends commands. Nil commands are ignored.
func (s *Sequence) Add(commands ...Command) {
	for _, c := range commands {
		if c != nil {
			s.commands = append(s.commands, c)
		}
	}
}

// Remove drops the first occurrence of c and reports whether it was found.
// Commands are matched by identity. Values of non-comparable types, such as
// CommandFunc, never match.
func (s *Sequence) Remove(c Command) bool {
	for i, cur := range s.commands {
		if sameCommand(cur, c) {
			s.commands = append(s.commands[:i], s.commands[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether c is part of the sequence.
func (s *Sequence) Contains(c Command) bool {
	for _, cur := range s.commands {
		if sameCommand(cur, c) {
			return true
		}
	}
	return false
}

// Commands returns a copy of the commands in run order.
func (s *Sequence) Commands() []Command { return slices.Clone(s.commands) }

// Len returns the number of commands.
func (s *Sequence) Len() int { return len(s.commands) }

// Run applies every command to d and stops at the first failure.
func (s *Sequence) Run(d *dna.DNA) error {
	for i, c := range s.commands {
		if err := c.Run(d); err != nil {
			return errors.Wrapf(err, "command %d (%T)", i, c)
		}
	}
	return nil
}

func sameCommand(a, b Command) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
