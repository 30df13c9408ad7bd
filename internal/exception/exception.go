// Package exception is the error type used throughout this repo: a plain
// message plus a Kind so callers can switch on the failure category
// without string matching.
package exception

import (
	"fmt"
	"runtime"

	"github.com/anvilcrypt/aesdh/internal/glog"
)

// injectable
var DEBUG bool

// Kind classifies why an operation failed.
type Kind int

const (
	Unknown Kind = iota
	ArgumentError
	IoError
	ProtocolError
	AuthenticationFailure
	CryptoInvariant
)

func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "ArgumentError"
	case IoError:
		return "IoError"
	case ProtocolError:
		return "ProtocolError"
	case AuthenticationFailure:
		return "AuthenticationFailure"
	case CryptoInvariant:
		return "CryptoInvariant"
	default:
		return "Unknown"
	}
}

type Exception struct {
	kind Kind
	msg  string
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Exception) Kind() Kind {
	return e.kind
}

func (e *Exception) Apply(appendage interface{}) *Exception {
	return &Exception{kind: e.kind, msg: fmt.Sprintf("%s %v", e.msg, appendage)}
}

func New(kind Kind, msg string) *Exception {
	return &Exception{kind: kind, msg: msg}
}

// Is reports whether err is an *Exception of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Exception)
	return ok && e.kind == kind
}

func Detail(err error) string {
	if err != nil && (glog.V(1) || DEBUG) {
		return fmt.Sprintf("(Error:%T::%s)", err, err)
	}
	return ""
}

// Catch mirrors the teacher's recover-and-classify helper: if [re] or
// *[err] is non-nil it returns true, setting *err to [re] when present.
func Catch(re interface{}, err *error) bool {
	var ex error
	if re != nil {
		switch rex := re.(type) {
		case error:
			ex = rex
		default:
			ex = fmt.Errorf("%v", re)
		}
		if DEBUG || glog.V(1) {
			buf := make([]byte, 1600)
			n := runtime.Stack(buf, false)
			glog.DirectPrintln(ex.Error() + "\n" + string(buf[:n]))
		}
	}
	if ex != nil {
		if err != nil {
			*err = ex
		}
		return true
	}
	return err != nil && *err != nil
}
