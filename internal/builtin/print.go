package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/binoyjayan/p2sh/internal/object"
)

// formatArgs renders args through spec.md §6's format-specifier grammar:
// `{}` default display, `{:X}`/`{:x}` hex, `{:b}` binary, `{:o}` octal,
// `{:.N}` fixed fraction digits. The template is the first argument when
// called as `format`, or synthesized as successive `{}` placeholders for
// puts/print/println which just join their arguments with the default
// specifier.
func formatArgs(template string, args []object.Value) (string, error) {
	var b strings.Builder
	argi := 0
	i := 0
	for i < len(template) {
		c := template[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("format: unterminated placeholder")
		}
		spec := template[i+1 : i+end]
		i += end + 1

		if argi >= len(args) {
			return "", fmt.Errorf("format: not enough arguments for placeholder %d", argi+1)
		}
		v := args[argi]
		argi++

		rendered, err := renderSpec(spec, v)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func renderSpec(spec string, v object.Value) (string, error) {
	if spec == "" {
		return v.String(), nil
	}
	if spec[0] != ':' {
		return "", fmt.Errorf("format: unrecognized placeholder {%s}", spec)
	}
	spec = spec[1:]

	switch spec {
	case "X":
		n, ok := asInt(v)
		if !ok {
			return "", fmt.Errorf("format: {:X} requires an integer, got %s", v.Type())
		}
		return strings.ToUpper(strconv.FormatInt(n, 16)), nil
	case "x":
		n, ok := asInt(v)
		if !ok {
			return "", fmt.Errorf("format: {:x} requires an integer, got %s", v.Type())
		}
		return strconv.FormatInt(n, 16), nil
	case "b":
		n, ok := asInt(v)
		if !ok {
			return "", fmt.Errorf("format: {:b} requires an integer, got %s", v.Type())
		}
		return strconv.FormatInt(n, 2), nil
	case "o":
		n, ok := asInt(v)
		if !ok {
			return "", fmt.Errorf("format: {:o} requires an integer, got %s", v.Type())
		}
		return strconv.FormatInt(n, 8), nil
	}

	if strings.HasPrefix(spec, ".") {
		digits, err := strconv.Atoi(spec[1:])
		if err != nil {
			return "", fmt.Errorf("format: unrecognized placeholder {:%s}", spec)
		}
		f, ok := asFloat(v)
		if !ok {
			return "", fmt.Errorf("format: {:.%d} requires a numeric value, got %s", digits, v.Type())
		}
		return strconv.FormatFloat(f, 'f', digits, 64), nil
	}

	return "", fmt.Errorf("format: unrecognized placeholder {:%s}", spec)
}

func asInt(v object.Value) (int64, bool) {
	switch v := v.(type) {
	case object.Int:
		return int64(v), true
	case object.Byte:
		return int64(v), true
	case object.Char:
		return int64(v), true
	}
	return 0, false
}

func asFloat(v object.Value) (float64, bool) {
	switch v := v.(type) {
	case object.Float:
		return float64(v), true
	case object.Int:
		return float64(v), true
	}
	return 0, false
}

// defaultTemplate synthesizes a template of plain `{}` placeholders, one
// per argument, space-separated, for puts/print/println/eprint/eprintln
// which take a variable argument list rather than an explicit template.
func defaultTemplate(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("{}")
	}
	return b.String()
}

func (r *Registry) builtinPuts(args []object.Value) (object.Value, error) {
	return r.writeLine(stdoutGlobal(r), args)
}

func (r *Registry) builtinPrint(args []object.Value) (object.Value, error) {
	return r.write(stdoutGlobal(r), args)
}

func (r *Registry) builtinPrintln(args []object.Value) (object.Value, error) {
	return r.writeLine(stdoutGlobal(r), args)
}

func (r *Registry) builtinEprint(args []object.Value) (object.Value, error) {
	return r.write(stderrGlobal(r), args)
}

func (r *Registry) builtinEprintln(args []object.Value) (object.Value, error) {
	return r.writeLine(stderrGlobal(r), args)
}

func (r *Registry) builtinFormat(args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("format: expected a template argument")
	}
	tmpl, ok := args[0].(object.String)
	if !ok {
		return nil, fmt.Errorf("format: template must be a string, got %s", args[0].Type())
	}
	s, err := formatArgs(string(tmpl), args[1:])
	if err != nil {
		return nil, err
	}
	return object.String(s), nil
}

func (r *Registry) write(f *object.File, args []object.Value) (object.Value, error) {
	if f == nil {
		return nil, fmt.Errorf("output stream has been reassigned to a non-file value")
	}
	s, err := formatArgs(defaultTemplate(len(args)), args)
	if err != nil {
		return nil, err
	}
	if _, err := f.F.WriteString(s); err != nil {
		r.setErrno(err)
		return nil, err
	}
	return object.NullValue, nil
}

func (r *Registry) writeLine(f *object.File, args []object.Value) (object.Value, error) {
	if f == nil {
		return nil, fmt.Errorf("output stream has been reassigned to a non-file value")
	}
	s, err := formatArgs(defaultTemplate(len(args)), args)
	if err != nil {
		return nil, err
	}
	if _, err := f.F.WriteString(s + "\n"); err != nil {
		r.setErrno(err)
		return nil, err
	}
	return object.NullValue, nil
}

// stdoutGlobal/stderrGlobal read back the File values bound by
// BindPrelude: puts/print family write to whatever stdout/stderr
// currently are, honoring reassignment the same way read/write do.
func stdoutGlobal(r *Registry) *object.File {
	if f, ok := r.vm.Globals[1].(*object.File); ok {
		return f
	}
	return nil
}

func stderrGlobal(r *Registry) *object.File {
	if f, ok := r.vm.Globals[2].(*object.File); ok {
		return f
	}
	return nil
}
