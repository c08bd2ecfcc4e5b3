package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"screenbuf/hal"
)

// recoverPanic turns a panic in the render loop into an error after logging
// the stack, so deferred teardown still returns the buffers.
func recoverPanic(log hal.Logger, err *error) {
	v := recover()
	if v == nil {
		return
	}
	log.WriteLineString(fmt.Sprintf("screenbuf: panic: %v", v))
	for _, line := range strings.Split(string(debug.Stack()), "\n") {
		if line == "" {
			continue
		}
		log.WriteLineString(line)
	}
	*err = fmt.Errorf("render loop panic: %v", v)
}
