package script

import (
	"log/slog"
	"math"
	"strings"

	"github.com/Shopify/go-lua"
)

// newState creates a sandboxed Lua state. Only the base, string, table and
// math libraries are loaded; file, process and module loading are removed.
// print is routed to logger at debug level.
func newState(logger *slog.Logger) *lua.State {
	l := lua.NewState()

	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "string", lua.StringOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"} {
		l.PushNil()
		l.SetGlobal(name)
	}

	l.Register("print", func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, lua.CheckString(l, i))
		}
		logger.Debug("lua print", "message", strings.Join(parts, "\t"))
		return 0
	})
	l.Register("str_trim", strTrim)
	l.Register("str_split", strSplit)

	return l
}

// pushStrings pushes items as a Lua sequence.
func pushStrings(l *lua.State, items []string) {
	l.NewTable()
	for i, item := range items {
		l.PushInteger(i + 1)
		l.PushString(item)
		l.SetTable(-3)
	}
}

// pullValue converts a Lua value to Go. Tables whose keys are exactly
// 1..n become []any; other tables become map[string]any.
func pullValue(l *lua.State, idx int) any {
	switch l.TypeOf(idx) {
	case lua.TypeNil:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(idx)
	case lua.TypeNumber:
		n, _ := l.ToNumber(idx)
		return n
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return s
	case lua.TypeTable:
		l.PushValue(idx)

		isArray := true
		count, maxIndex := 0, 0.0
		l.PushNil()
		for l.Next(-2) {
			count++
			if isArray {
				n, ok := l.ToNumber(-2)
				if l.TypeOf(-2) != lua.TypeNumber || !ok || n < 1 || n != math.Trunc(n) {
					isArray = false
				} else if n > maxIndex {
					maxIndex = n
				}
			}
			l.Pop(1)
		}

		// Sparse tables such as {[1e9] = 1} stay objects.
		if isArray && count > 0 && maxIndex == float64(count) {
			arr := make([]any, count)
			for i := 1; i <= count; i++ {
				l.PushInteger(i)
				l.Table(-2)
				arr[i-1] = pullValue(l, -1)
				l.Pop(1)
			}
			l.Pop(1)
			return arr
		}

		obj := make(map[string]any, count)
		l.PushNil()
		for l.Next(-2) {
			// Convert a copy so Next still sees the original key.
			l.PushValue(-2)
			key, _ := l.ToString(-1)
			l.Pop(1)
			obj[key] = pullValue(l, -1)
			l.Pop(1)
		}
		l.Pop(1)
		return obj
	default:
		return nil
	}
}

func strTrim(l *lua.State) int {
	str := lua.CheckString(l, 1)
	l.PushString(strings.TrimSpace(str))
	return 1
}

func strSplit(l *lua.State) int {
	str := lua.CheckString(l, 1)
	sep := lua.CheckString(l, 2)
	pushStrings(l, strings.Split(str, sep))
	return 1
}
