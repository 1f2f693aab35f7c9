/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Loom Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package address

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// protocol is the scheme used when rendering an address path.
const protocol = "loom"

// namePattern matches valid actor and system names: word characters with
// non-leading hyphens or underscores.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)

// ErrInvalidName is returned when an actor or system name does not match
// the allowed pattern.
var ErrInvalidName = errors.New("invalid name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

// Address is the process-unique identity of an actor. It is immutable:
// the id is minted once at spawn time and is never reused after the cell
// terminates. Restarting a cell keeps its address.
type Address struct {
	system string
	name   string
	id     string
	parent *Address
}

// New creates an address for a top-level actor in the given system.
func New(name, system string) *Address {
	return &Address{
		system: system,
		name:   name,
		id:     uuid.NewString(),
	}
}

// NewWithParent creates an address for a child actor under the given parent.
func NewWithParent(name string, parent *Address) *Address {
	return &Address{
		system: parent.system,
		name:   name,
		id:     uuid.NewString(),
		parent: parent,
	}
}

// NoSender returns the synthetic address used when a message is injected
// from outside the actor system.
func NoSender() *Address {
	return &Address{system: "", name: "", id: ""}
}

// System returns the name of the actor system the address belongs to.
func (a *Address) System() string {
	return a.system
}

// Name returns the actor name.
func (a *Address) Name() string {
	return a.name
}

// ID returns the unique identifier minted at spawn time.
func (a *Address) ID() string {
	return a.id
}

// Parent returns the parent address or nil for a top-level actor.
func (a *Address) Parent() *Address {
	return a.parent
}

// Equals returns true when both addresses identify the same actor cell.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id == other.id
}

// String returns the path form of the address,
// e.g. loom://mysystem/parent/child.
func (a *Address) String() string {
	var names []string
	for node := a; node != nil; node = node.parent {
		names = append(names, node.name)
	}
	// reverse into root-first order
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	var sb strings.Builder
	sb.WriteString(protocol)
	sb.WriteString("://")
	sb.WriteString(a.system)
	sb.WriteString("/")
	sb.WriteString(strings.Join(names, "/"))
	return sb.String()
}

// Validate checks the address name and system for correctness.
func (a *Address) Validate() error {
	if !namePattern.MatchString(a.name) || !namePattern.MatchString(a.system) {
		return ErrInvalidName
	}
	return nil
}
