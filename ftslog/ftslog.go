// Package ftslog defines the logging sink the search kernel delegates
// to. The engine never owns an output channel; callers inject a
// Logger (NewZap builds a zap-backed one), and engine.New uses Nop when
// none is injected.
package ftslog

import "go.uber.org/zap"

// Logger is the minimal sink interface the kernel logs through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type zapSugar struct {
	s *zap.SugaredLogger
}

func (z zapSugar) Debugf(format string, args ...interface{}) { z.s.Debugf(format, args...) }
func (z zapSugar) Infof(format string, args ...interface{})  { z.s.Infof(format, args...) }
func (z zapSugar) Warnf(format string, args ...interface{})  { z.s.Warnf(format, args...) }
func (z zapSugar) Errorf(format string, args ...interface{}) { z.s.Errorf(format, args...) }

// NewZap builds a Logger that is a thin wrapper around a production
// zap.SugaredLogger.
func NewZap() Logger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return zapSugar{s: l.Sugar()}
}

type nop struct{}

func (nop) Debugf(string, ...interface{}) {}
func (nop) Infof(string, ...interface{})  {}
func (nop) Warnf(string, ...interface{})  {}
func (nop) Errorf(string, ...interface{}) {}

// Nop returns a Logger that discards everything, used as the default
// in tests and wherever a caller does not care to inject a sink.
func Nop() Logger { return nop{} }
