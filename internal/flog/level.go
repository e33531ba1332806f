/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package flog wraps logrus with the leveled, package-wide helpers the rest
// of FriendCore calls (flog.InfoLevel.Logf, flog.ErrorLevel.LogErrorCtxf),
// instead of scattering *logrus.Logger references through every component.
package flog

import (
	"github.com/sirupsen/logrus"
)

type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

var std = logrus.StandardLogger()

// SetLogger lets the composition root point every component's logging at a
// single configured logrus logger instead of the package default.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		std = l
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func (l Level) Log(args ...interface{}) {
	if l == NilLevel {
		return
	}
	std.Log(l.logrus(), args...)
}

func (l Level) Logf(format string, args ...interface{}) {
	if l == NilLevel {
		return
	}
	std.Logf(l.logrus(), format, args...)
}

// LogErrorCtxf logs format/args at level l, appending err as a structured
// field, then (if ctxLevel is neither NilLevel nor l) logs the same
// format/args a second time at ctxLevel, without the error field — mirrors
// the two-level pattern the teacher uses.
func (l Level) LogErrorCtxf(ctxLevel Level, format string, err error, args ...interface{}) {
	if l != NilLevel {
		std.WithField("error", err).Logf(l.logrus(), format, args...)
	}
	if ctxLevel != NilLevel && ctxLevel != l {
		ctxLevel.Logf(format, args...)
	}
}
