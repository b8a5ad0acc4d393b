package stdlib

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// ok wraps a successful tool result, per §7's "Ok-wrapped success or
// Error value" recovery convention.
func ok(v rtfsvalue.Value) rtfsvalue.Value { return &rtfsvalue.OkValue{Inner: v} }

func toolErr(kind rtfserr.Code, message string, data map[string]interface{}) rtfsvalue.Value {
	e := rtfserr.New(kind, message, data)
	return &rtfsvalue.ErrorValue{Kind: string(e.Kind), Message: e.Message, Data: dataToMap(data)}
}

func dataToMap(data map[string]interface{}) *rtfsvalue.MapValue {
	if data == nil {
		return nil
	}
	m := rtfsvalue.NewMap()
	for k, v := range data {
		m.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: k}, toValue(v))
	}
	return m
}

func toValue(v interface{}) rtfsvalue.Value {
	switch x := v.(type) {
	case string:
		return rtfsvalue.StringValue(x)
	case int:
		return rtfsvalue.IntValue(x)
	default:
		return rtfsvalue.StringValue(fmt.Sprint(x))
	}
}

// logColors mirrors the teacher's REPL level-coloring convention
// (internal/repl/repl.go): info is cyan, warn yellow, error red.
var logColors = map[string]*color.Color{
	"info":  color.New(color.FgCyan),
	"warn":  color.New(color.FgYellow),
	"error": color.New(color.FgRed),
}

// Emit writes one LogStep line to w; exported so astexec/irexec can share
// it without duplicating the color convention.
func Emit(w io.Writer, level, location string, parts []string) {
	c, ok := logColors[level]
	if !ok {
		c = color.New(color.FgWhite)
	}
	tag := "[" + strings.ToUpper(level) + "]"
	if location != "" {
		tag += "[" + location + "]"
	}
	line := tag + " " + strings.Join(parts, " ")
	c.Fprintln(w, line)
}

// openResources tracks file handles by resource id so tool:read-line /
// tool:write-line / tool:close-file can reach the underlying *os.File.
var openResources = map[string]*os.File{}

// registerTools installs the tool surface, consulting allow for each
// name so a host can restrict the set available to a given script
// (e.g. the config-driven tool-builtin allowlist). A nil allow permits
// everything.
func registerTools(env *rtfsvalue.NameEnv, allow func(name string) bool) {
	tooldef := func(name string, arity rtfsvalue.Arity, impl func([]rtfsvalue.Value) (rtfsvalue.Value, error)) {
		if allow != nil && !allow(name) {
			return
		}
		def(env, name, arity, impl)
	}
	tooldef("tool:log", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		level := "info"
		vals := args
		if kw, ok := args[0].(rtfsvalue.KeywordValue); ok {
			level = string(kw)
			vals = args[1:]
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = v.String()
		}
		Emit(os.Stdout, level, "", parts)
		if len(vals) == 0 {
			return rtfsvalue.Nil, nil
		}
		return vals[len(vals)-1], nil
	})

	tooldef("tool:print", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		parts := make([]string, len(args))
		for i, v := range args {
			if s, ok := v.(rtfsvalue.StringValue); ok {
				parts[i] = s.RawString()
			} else {
				parts[i] = v.String()
			}
		}
		fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
		return rtfsvalue.Nil, nil
	})

	tooldef("tool:current-time", rtfsvalue.Exact(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return rtfsvalue.IntValue(time.Now().UnixMilli()), nil
	})

	tooldef("tool:parse-json", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		s, isStr := args[0].(rtfsvalue.StringValue)
		if !isStr {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		var raw interface{}
		dec := json.NewDecoder(strings.NewReader(s.RawString()))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return toolErr(rtfserr.RT014, err.Error(), nil), nil
		}
		return ok(jsonToValue(raw)), nil
	})

	tooldef("tool:serialize-json", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		out, err := json.Marshal(valueToJSON(args[0]))
		if err != nil {
			return toolErr(rtfserr.RT014, err.Error(), nil), nil
		}
		return ok(rtfsvalue.StringValue(out)), nil
	})

	tooldef("tool:open-file", rtfsvalue.RangeArity(1, 2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		path, isStr := args[0].(rtfsvalue.StringValue)
		if !isStr {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		mode := os.O_RDONLY
		if len(args) == 2 {
			if m, ok := args[1].(rtfsvalue.KeywordValue); ok && m == "write" {
				mode = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
		}
		f, err := os.OpenFile(path.RawString(), mode, 0644)
		if err != nil {
			return toolErr(rtfserr.RT012, err.Error(), map[string]interface{}{"path": path.RawString()}), nil
		}
		res := rtfsvalue.NewResource("FileHandle", map[string]rtfsvalue.Value{
			"path": path,
		}, func() error { return f.Close() })
		openResources[res.ID] = f
		return ok(res), nil
	})

	tooldef("tool:read-line", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		res, errv := resourceArg(args[0], "FileHandle")
		if errv != nil {
			return errv, nil
		}
		f := openResources[res.ID]
		reader := bufio.NewReader(f)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return toolErr(rtfserr.RT012, err.Error(), nil), nil
		}
		return ok(rtfsvalue.StringValue(strings.TrimRight(line, "\n"))), nil
	})

	tooldef("tool:write-line", rtfsvalue.Exact(2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		res, errv := resourceArg(args[0], "FileHandle")
		if errv != nil {
			return errv, nil
		}
		s, isStr := args[1].(rtfsvalue.StringValue)
		if !isStr {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[1]))
		}
		f := openResources[res.ID]
		if _, err := fmt.Fprintln(f, s.RawString()); err != nil {
			return toolErr(rtfserr.RT012, err.Error(), nil), nil
		}
		return ok(rtfsvalue.Nil), nil
	})

	tooldef("tool:close-file", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		res, errv := resourceArg(args[0], "FileHandle")
		if errv != nil {
			return errv, nil
		}
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		res.State = rtfsvalue.Released
		delete(openResources, res.ID)
		return ok(rtfsvalue.Nil), nil
	})

	tooldef("tool:get-env", rtfsvalue.RangeArity(1, 2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		name, isStr := args[0].(rtfsvalue.StringValue)
		if !isStr {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		if v, present := os.LookupEnv(name.RawString()); present {
			return ok(rtfsvalue.StringValue(v)), nil
		}
		if len(args) == 2 {
			return ok(args[1]), nil
		}
		return toolErr(rtfserr.RT013, fmt.Sprintf("environment variable not found: %s", name.RawString()),
			map[string]interface{}{"name": name.RawString()}), nil
	})

	tooldef("tool:http-fetch", rtfsvalue.RangeArity(1, 2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		url, isStr := args[0].(rtfsvalue.StringValue)
		if !isStr {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		resp, err := http.Get(url.RawString())
		if err != nil {
			return toolErr(rtfserr.RT012, err.Error(), map[string]interface{}{"url": url.RawString()}), nil
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return toolErr(rtfserr.RT012, err.Error(), nil), nil
		}
		return ok(rtfsvalue.StringValue(body)), nil
	})
}

// resourceArg validates a resource handle argument, returning a non-nil
// ResourceError Value in place of errv when the handle is missing or has
// already transitioned to Released (§4.6's invariant that any use of a
// released handle by a stdlib operation must fail with ResourceError).
func resourceArg(v rtfsvalue.Value, wantType string) (res *rtfsvalue.ResourceValue, errv rtfsvalue.Value) {
	r, isRes := v.(*rtfsvalue.ResourceValue)
	if !isRes {
		return nil, toolErr(rtfserr.RT007, fmt.Sprintf("expected a %s resource", wantType), nil)
	}
	if r.State != rtfsvalue.Active {
		return nil, toolErr(rtfserr.RT007, "operation on a released resource", map[string]interface{}{"resource_type": r.ResourceType})
	}
	return r, nil
}

func jsonToValue(v interface{}) rtfsvalue.Value {
	switch x := v.(type) {
	case nil:
		return rtfsvalue.Nil
	case bool:
		return rtfsvalue.BoolValue(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return rtfsvalue.IntValue(i)
		}
		f, _ := x.Float64()
		return rtfsvalue.FloatValue(f)
	case string:
		return rtfsvalue.StringValue(x)
	case []interface{}:
		elems := make([]rtfsvalue.Value, len(x))
		for i, e := range x {
			elems[i] = jsonToValue(e)
		}
		return rtfsvalue.NewVector(elems...)
	case map[string]interface{}:
		m := rtfsvalue.NewMap()
		for k, e := range x {
			m.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyString, Str: k}, jsonToValue(e))
		}
		return m
	default:
		return rtfsvalue.Nil
	}
}

func valueToJSON(v rtfsvalue.Value) interface{} {
	switch x := v.(type) {
	case rtfsvalue.NilValue:
		return nil
	case rtfsvalue.BoolValue:
		return bool(x)
	case rtfsvalue.IntValue:
		return int64(x)
	case rtfsvalue.FloatValue:
		return float64(x)
	case rtfsvalue.StringValue:
		return x.RawString()
	case rtfsvalue.KeywordValue:
		return string(x)
	case *rtfsvalue.VectorValue:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = valueToJSON(e)
		}
		return out
	case *rtfsvalue.MapValue:
		out := map[string]interface{}{}
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k.String()] = valueToJSON(val)
		}
		return out
	default:
		return x.String()
	}
}
