// Package glog is a minimal leveled logger, modeled on the call-site idiom
// of Infof/Warningf/Errorln plus a V(n) verbosity gate.
package glog

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Verbosity levels, mirroring the teacher's glog/log_level.go scheme.
const (
	LvErrDetail = 1
	LvConnect   = 2
	LvSession   = 3
	LvFrame     = 4
	LvData      = 5
)

var verbosity int32

// SetVerbosity sets the global verbosity threshold; V(n) reports true for
// n <= the configured level.
func SetVerbosity(v int) {
	atomic.StoreInt32(&verbosity, int32(v))
}

// Level reports the currently configured verbosity.
func Level() int {
	return int(atomic.LoadInt32(&verbosity))
}

// V reports whether level n is enabled at the current verbosity.
func V(n int) bool {
	return n <= Level()
}

var std = log.New(os.Stderr, "", log.LstdFlags)

func Infof(format string, args ...interface{})    { std.Output(2, "I "+fmt.Sprintf(format, args...)) }
func Infoln(args ...interface{})                  { std.Output(2, "I "+fmt.Sprintln(args...)) }
func Warningf(format string, args ...interface{}) { std.Output(2, "W "+fmt.Sprintf(format, args...)) }
func Warningln(args ...interface{})               { std.Output(2, "W "+fmt.Sprintln(args...)) }
func Errorf(format string, args ...interface{})   { std.Output(2, "E "+fmt.Sprintf(format, args...)) }
func Errorln(args ...interface{})                 { std.Output(2, "E "+fmt.Sprintln(args...)) }

// DirectPrintln writes without the level prefix, for stack dumps and the
// like, matching the teacher's DirectPrintln escape hatch.
func DirectPrintln(args ...interface{}) {
	std.Output(2, fmt.Sprintln(args...))
}
