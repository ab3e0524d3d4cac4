package js

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dop251/goja"
)

// styleDeclaration backs element.style. It maps camelCase property access to
// kebab-case CSS names, keeps the declared values, and forwards every write to
// the render host as a setStyle command.
type styleDeclaration struct {
	owner  *ElementInstance
	values map[string]string
	funcs  map[string]goja.Value
}

func newStyleDeclaration(owner *ElementInstance) *styleDeclaration {
	return &styleDeclaration{
		owner:  owner,
		values: make(map[string]string),
		funcs:  make(map[string]goja.Value),
	}
}

func (s *styleDeclaration) vm() *goja.Runtime { return s.owner.ctx.vm }

func (s *styleDeclaration) Get(key string) goja.Value {
	switch key {
	case "getPropertyValue":
		return s.method(key, func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return s.vm().ToValue("")
			}
			return s.vm().ToValue(s.values[call.Arguments[0].String()])
		})
	case "setProperty":
		return s.method(key, func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				s.owner.ctx.throw(argumentError("setProperty",
					"Failed to execute 'setProperty' on 'CSSStyleDeclaration': 2 arguments required, but only %d present.",
					len(call.Arguments)))
			}
			s.set(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "removeProperty":
		return s.method(key, func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return s.vm().ToValue("")
			}
			prop := call.Arguments[0].String()
			old := s.values[prop]
			s.set(prop, "")
			return s.vm().ToValue(old)
		})
	case "cssText":
		return s.vm().ToValue(s.cssText())
	case "length":
		return s.vm().ToValue(len(s.values))
	case "toString", "valueOf", "constructor":
		return nil
	}
	return s.vm().ToValue(s.values[camelToKebab(key)])
}

func (s *styleDeclaration) Set(key string, val goja.Value) bool {
	switch key {
	case "getPropertyValue", "setProperty", "removeProperty", "length":
		return false
	case "cssText":
		for prop := range s.values {
			s.set(prop, "")
		}
		for prop, v := range parseInlineStyle(val.String()) {
			s.set(prop, v)
		}
		return true
	}
	v := ""
	if !isNullish(val) {
		v = val.String()
	}
	s.set(camelToKebab(key), v)
	return true
}

func (s *styleDeclaration) Has(key string) bool {
	_, ok := s.values[camelToKebab(key)]
	return ok
}

func (s *styleDeclaration) Delete(key string) bool {
	s.set(camelToKebab(key), "")
	return true
}

func (s *styleDeclaration) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *styleDeclaration) method(name string, fn func(call goja.FunctionCall) goja.Value) goja.Value {
	if f, ok := s.funcs[name]; ok {
		return f
	}
	f := s.vm().ToValue(fn)
	s.funcs[name] = f
	return f
}

// set records the declaration and enqueues setStyle. An empty value clears it.
func (s *styleDeclaration) set(prop, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(s.values, prop)
	} else {
		s.values[prop] = value
	}
	s.owner.ctx.queue.Enqueue(UICommand{
		TargetID: s.owner.handle.TargetID(),
		Type:     CommandSetStyle,
		Args:     cloneArgs(prop, value),
	})
}

func (s *styleDeclaration) cssText() string {
	keys := s.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s.values[k])
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

// parseInlineStyle parses a CSS inline style string into a map.
func parseInlineStyle(s string) map[string]string {
	result := make(map[string]string)
	s = strings.TrimSpace(s)
	if s == "" {
		return result
	}
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.TrimSpace(decl[:idx])
		val := strings.TrimSpace(decl[idx+1:])
		result[prop] = val
	}
	return result
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	if strings.HasPrefix(s, "--") {
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
