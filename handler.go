package variant

import (
	"go.uber.org/zap"
)

// Handler receives failures that have no error return to travel through,
// namely access to an alternative that is not active. A handler may panic or
// exit (the default panics); if it returns, the failing call returns the
// error to its caller.
type Handler func(err error)

var handler Handler = PanicHandler

// SetHandler replaces the package handler used by sets declared without
// WithHandler. A nil h restores PanicHandler. Like SetLogger it is meant to
// be called during program setup.
func SetHandler(h Handler) {
	if h == nil {
		h = PanicHandler
	}
	handler = h
}

// CurrentHandler returns the package handler.
func CurrentHandler() Handler {
	return handler
}

// PanicHandler logs err and panics with it.
func PanicHandler(err error) {
	Logger().Error("variant access failed", zap.Error(err))
	panic(err)
}

// ReturnHandler logs err at debug level and lets the call return it.
func ReturnHandler(err error) {
	Logger().Debug("variant access failed", zap.Error(err))
}

// report hands err to the set's handler and returns it for callers that
// survive the handler.
func (s *Set) report(err error) error {
	h := s.handler
	if h == nil {
		h = handler
	}
	h(err)
	return err
}
