package rangeproof

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var packageLogger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	packageLogger.Store(&nop)
}

// SetLogger replaces the package logger. It may be called while proofs are
// being verified concurrently.
func SetLogger(l zerolog.Logger) {
	packageLogger.Store(&l)
}

func logger() *zerolog.Logger {
	return packageLogger.Load()
}
