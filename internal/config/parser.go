package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/DcZipPL/GodotManager/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table out of the Lua environment.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	return p.ParseString(ctx, string(data))
}

// ParseString runs luaCode in the sandbox and returns the declared settings
// as a nested map keyed like the Key constants. Durations are returned as
// duration strings.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: err.Error()}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractSettings(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractSettings reads the global settings table. A script that does not
// declare it contributes nothing.
func extractSettings(L *lua.LState) (map[string]any, error) {
	rootVal := L.GetGlobal(luaGlobalRoot)
	if rootVal.Type() == lua.LTNil {
		return map[string]any{}, nil
	}
	root, ok := rootVal.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' table", luaGlobalRoot),
			Detail:  fmt.Sprintf("expected table, got %s", rootVal.Type()),
		}
	}

	out := make(map[string]any)
	var unknown []string
	root.ForEach(func(key, _ lua.LValue) {
		if _, known := fieldTypes[key.String()]; !known {
			unknown = append(unknown, key.String())
		}
	})
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ParseError{
			Message: "unknown config section",
			Detail:  strings.Join(unknown, ", "),
		}
	}

	for _, section := range sectionOrder {
		fields := fieldTypes[section]
		val := root.RawGetString(section)
		if val.Type() == lua.LTNil {
			continue
		}
		table, ok := val.(*lua.LTable)
		if !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid '%s' section", section),
				Detail:  fmt.Sprintf("expected table, got %s", val.Type()),
			}
		}
		values, err := extractSection(section, table, fields)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			out[section] = values
		}
	}

	return out, nil
}

// extractSection converts one section table. Fields set to nil (for
// example from a platform conditional) are skipped.
func extractSection(section string, table *lua.LTable, fields map[string]fieldType) (map[string]any, error) {
	values := make(map[string]any)
	var firstErr error

	table.ForEach(func(key, value lua.LValue) {
		if firstErr != nil {
			return
		}
		name := key.String()
		kind, known := fields[name]
		if !known {
			firstErr = &ParseError{
				Message: "unknown config field",
				Detail:  section + "." + name,
			}
			return
		}
		converted, err := convertField(kind, value)
		if err != nil {
			firstErr = &ParseError{
				Message: fmt.Sprintf("invalid value for %s.%s", section, name),
				Detail:  err.Error(),
			}
			return
		}
		values[name] = converted
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}

func convertField(kind fieldType, value lua.LValue) (any, error) {
	switch kind {
	case fieldString:
		if value.Type() != lua.LTString {
			return nil, fmt.Errorf("expected string, got %s", value.Type())
		}
		return value.String(), nil

	case fieldInteger:
		n, ok := value.(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("expected number, got %s", value.Type())
		}
		f := float64(n)
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer, got %v", f)
		}
		return int(f), nil

	case fieldDuration:
		switch v := value.(type) {
		case lua.LNumber:
			if v <= 0 {
				return nil, fmt.Errorf("duration must be positive, got %v", float64(v))
			}
			return (time.Duration(float64(v) * float64(time.Second))).String(), nil
		case lua.LString:
			d, err := time.ParseDuration(string(v))
			if err != nil {
				return nil, err
			}
			return d.String(), nil
		default:
			return nil, fmt.Errorf("expected seconds or duration string, got %s", value.Type())
		}
	}
	return nil, fmt.Errorf("unsupported field type")
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
