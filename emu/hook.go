package emu

import "github.com/sirupsen/logrus"

// Hook receives notifications at the core's observability points. The
// default hook does nothing; install one with WithHook to trace
// exception entries and undefined encodings without any process-wide
// debug flags.
type Hook interface {
	// ExceptionTaken fires after the sequencer has completed entry.
	ExceptionTaken(exc Exception, returnAddr uint32)

	// UndefinedEncoding fires when a fetched bit pattern matches no
	// known instruction, before the Undefined exception is taken.
	UndefinedEncoding(word uint32, thumb bool, addr uint32)
}

type nopHook struct{}

func (nopHook) ExceptionTaken(Exception, uint32)       {}
func (nopHook) UndefinedEncoding(uint32, bool, uint32) {}

// LogHook is a Hook that emits structured log entries.
type LogHook struct {
	Logger *logrus.Logger
}

// ExceptionTaken implements Hook.
func (h LogHook) ExceptionTaken(exc Exception, returnAddr uint32) {
	h.Logger.WithFields(logrus.Fields{
		"exception": exc.String(),
		"return":    returnAddr,
	}).Debug("exception entry")
}

// UndefinedEncoding implements Hook.
func (h LogHook) UndefinedEncoding(word uint32, thumb bool, addr uint32) {
	h.Logger.WithFields(logrus.Fields{
		"word":  word,
		"thumb": thumb,
		"addr":  addr,
	}).Errorf("undefined instruction encoding %08x", word)
}
