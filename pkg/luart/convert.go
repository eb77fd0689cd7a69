package luart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// ErrUnconvertible is returned for Lua values with no data representation.
var ErrUnconvertible = errors.New("luart: value cannot be converted")

// ToGo converts a Lua value into plain Go data:
//
//	nil                      -> nil
//	boolean                  -> bool
//	integral number          -> int64
//	other number             -> float64
//	string                   -> string
//	sequence or empty table  -> []any
//	other table              -> map[string]any
//
// Functions, userdata, threads and cyclic tables are rejected.
func ToGo(lv lua.LValue) (any, error) {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visiting map[*lua.LTable]bool) (any, error) {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return number(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		if visiting[v] {
			return nil, fmt.Errorf("%w: cyclic table", ErrUnconvertible)
		}
		visiting[v] = true
		defer delete(visiting, v)
		return tableToGo(v, visiting)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnconvertible, lv.Type())
	}
}

func number(n lua.LNumber) any {
	f := float64(n)
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

// sequenceLen returns n when the table's keys are exactly 1..n.
func sequenceLen(t *lua.LTable) (int, bool) {
	count := 0
	maxN := 0
	isSeq := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok {
			isSeq = false
			return
		}
		n := int(kn)
		if float64(n) != float64(kn) || n < 1 {
			isSeq = false
			return
		}
		if n > maxN {
			maxN = n
		}
	})
	return maxN, isSeq && count == maxN
}

func tableToGo(t *lua.LTable, visiting map[*lua.LTable]bool) (any, error) {
	if n, ok := sequenceLen(t); ok {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			v, err := toGo(t.RawGetInt(i), visiting)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i-1] = v
		}
		return arr, nil
	}

	m := make(map[string]any)
	var firstErr error
	t.ForEach(func(k, lv lua.LValue) {
		if firstErr != nil {
			return
		}
		key, err := keyString(k)
		if err != nil {
			firstErr = err
			return
		}
		v, err := toGo(lv, visiting)
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", key, err)
			return
		}
		m[key] = v
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func keyString(k lua.LValue) (string, error) {
	switch kv := k.(type) {
	case lua.LString:
		return string(kv), nil
	case lua.LNumber:
		switch n := number(kv).(type) {
		case int64:
			return strconv.FormatInt(n, 10), nil
		default:
			return strconv.FormatFloat(float64(kv), 'g', -1, 64), nil
		}
	case lua.LBool:
		return strconv.FormatBool(bool(kv)), nil
	default:
		return "", fmt.Errorf("%w: %s key", ErrUnconvertible, k.Type())
	}
}
