// Package smtlog provides the structured, leveled logging shared by
// the sat core and every theory. The engine is silent by default: a
// caller opts in with sat.WithLogger, lra.WithLogger, and so on.
package smtlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus.Entry with the field vocabulary this engine
// logs against: decision level, conflicting constraint kind,
// learned-clause size, theory name on push/pop.
type Logger struct {
	entry *logrus.Entry
}

// Discard returns a Logger that drops every record, the default for
// a freshly constructed Core or theory.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

// New wraps an existing logrus.Logger, letting a caller opt into
// structured diagnostics at whatever level/output they configure.
func New(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

// Decision logs a new decision level being pushed via assume.
func (lg *Logger) Decision(level int, lit string) {
	lg.entry.WithFields(logrus.Fields{"level": level, "lit": lit}).Debug("decision")
}

// Conflict logs a conflict discovered by a constraint or theory.
func (lg *Logger) Conflict(kind string, level int) {
	lg.entry.WithFields(logrus.Fields{"kind": kind, "level": level}).Debug("conflict")
}

// Learned logs the size of a clause recorded by conflict analysis.
func (lg *Logger) Learned(size, backtrackLevel int) {
	lg.entry.WithFields(logrus.Fields{"size": size, "backtrack_level": backtrackLevel}).Debug("learned clause")
}

// TheoryPush logs a theory's push(), keyed by the theory's name.
func (lg *Logger) TheoryPush(name string, level int) {
	lg.entry.WithFields(logrus.Fields{"theory": name, "level": level}).Debug("theory push")
}

// TheoryPop logs a theory's pop(), keyed by the theory's name.
func (lg *Logger) TheoryPop(name string, level int) {
	lg.entry.WithFields(logrus.Fields{"theory": name, "level": level}).Debug("theory pop")
}

// Pivot logs a simplex pivot swapping a basic and a nonbasic variable.
func (lg *Logger) Pivot(basic, nonbasic int) {
	lg.entry.WithFields(logrus.Fields{"basic": basic, "nonbasic": nonbasic}).Debug("pivot")
}

// Edge logs a difference-logic edge being incorporated into the
// distance matrix.
func (lg *Logger) Edge(from, to int, dist string) {
	lg.entry.WithFields(logrus.Fields{"from": from, "to": to, "dist": dist}).Debug("edge asserted")
}
