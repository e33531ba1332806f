/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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
 *
 *
 */

package ferr

import (
	"strings"
)

// Error is the interface every fallible constructor in this module returns,
// instead of a bare error, so that callers downstream can branch on Code()
// and walk the parent chain without type-asserting to a concrete struct.
type Error interface {
	error

	Code() CodeError
	HasParent() bool
	AddParent(parent ...error)
	AddParentError(parent Error)
}

type ers struct {
	code    CodeError
	message string
	parents []error
}

func (e *ers) Code() CodeError {
	if e == nil {
		return UnknownError
	}
	return e.code
}

func (e *ers) HasParent() bool {
	return e != nil && len(e.parents) > 0
}

func (e *ers) AddParent(parent ...error) {
	if e == nil {
		return
	}
	for _, p := range parent {
		if p != nil {
			e.parents = append(e.parents, p)
		}
	}
}

func (e *ers) AddParentError(parent Error) {
	if e == nil || parent == nil {
		return
	}
	e.parents = append(e.parents, parent)
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}

	var sb strings.Builder

	if e.message != "" {
		sb.WriteString(e.message)
	} else if msg := lookupMessage(e.code); msg != "" {
		sb.WriteString(msg)
	} else {
		sb.WriteString("error code " + e.code.String())
	}

	for _, p := range e.parents {
		if p == nil {
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(p.Error())
	}

	return sb.String()
}

var registry = make(map[CodeError]func(CodeError) string)

// RegisterMessage lets each package register its own code -> human message
// table, the way every nabbar-golib subpackage registers its own getMessage.
func RegisterMessage(min CodeError, fn func(CodeError) string) {
	registry[min] = fn
}

func lookupMessage(code CodeError) string {
	var (
		best    CodeError
		bestFn  func(CodeError) string
		found   bool
	)

	for min, fn := range registry {
		if code >= min && (!found || min > best) {
			best, bestFn, found = min, fn, true
		}
	}

	if found && bestFn != nil {
		return bestFn(code)
	}

	return ""
}
