package js

import (
	"io"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// consoleAPI writes console output of one context, one line per call.
// Non-log levels carry an upper-case prefix.
type consoleAPI struct {
	mu  sync.Mutex
	out io.Writer
}

var consoleLevels = map[string]string{
	"log":   "",
	"info":  "",
	"debug": "",
	"warn":  "WARN: ",
	"error": "ERROR: ",
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	for name, prefix := range consoleLevels {
		console.Set(name, c.writer(prefix))
	}
	vm.Set("console", console)
}

func (c *consoleAPI) writer(prefix string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var line strings.Builder
		line.WriteString(prefix)
		for i, arg := range call.Arguments {
			if i > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(arg.String())
		}
		line.WriteByte('\n')
		c.mu.Lock()
		io.WriteString(c.out, line.String())
		c.mu.Unlock()
		return goja.Undefined()
	}
}
