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

// Package ferr provides a package-scoped, code-carrying error type used across
// FriendCore instead of bare errors, so callers can switch on Code() the same
// way the rest of the stack switches on HTTP status codes.
package ferr

import "strconv"

// CodeError is a numeric error code, namespaced per-package the same way the
// teacher's errors package reserves a block of codes per package.
type CodeError uint16

const (
	UnknownError CodeError = 0

	MinPkgListener    CodeError = 100
	MinPkgTLS         CodeError = 200
	MinPkgAcceptor    CodeError = 300
	MinPkgReactor     CodeError = 400
	MinPkgWorker      CodeError = 500
	MinPkgShutdown    CodeError = 600
	MinPkgPlugin      CodeError = 700
	MinPkgConfig      CodeError = 800
	MinPkgCore        CodeError = 900
)

func (c CodeError) Uint16() uint16 { return uint16(c) }

func (c CodeError) String() string { return strconv.Itoa(int(c)) }

// Error builds a new Error carrying this code and an optional immediate parent.
func (c CodeError) Error(parent error) Error {
	e := &ers{code: c}
	if parent != nil {
		e.parents = append(e.parents, parent)
	}
	return e
}

// ErrorParent is shorthand for Error(parent) when the caller only has a plain error.
func (c CodeError) ErrorParent(parent error) Error {
	return c.Error(parent)
}
