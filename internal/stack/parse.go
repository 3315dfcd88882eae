package stack

import (
	"regexp"
	"strconv"
	"strings"
)

// Parser splits a backend's raw stack text into the message and frames,
// newest frame first.
type Parser interface {
	Parse(raw string) (message string, frames []Frame)
}

var (
	// Native parses stacks printed by the goja engine.
	Native Parser = nativeParser{}
	// Interpreted parses stacks printed by internal/interp.
	Interpreted Parser = interpParser{}
)

var (
	nativePos  = regexp.MustCompile(`^(?:(.*) \()?(.*):(\d+):(\d+)\(\d+\)\)?$`)
	nativeFunc = regexp.MustCompile(`^(?:(.*) \()?native\)?$`)
	interpPos  = regexp.MustCompile(`^in (.*) at (?:<native>|(.*):(\d+):(\d+))$`)
)

type nativeParser struct{}

func (nativeParser) Parse(raw string) (string, []Frame) {
	return split(raw, "at ", func(body string) (Frame, bool) {
		if m := nativePos.FindStringSubmatch(body); m != nil {
			return Frame{Func: m[1], File: m[2], Line: atoi(m[3]), Column: atoi(m[4])}, true
		}
		if m := nativeFunc.FindStringSubmatch(body); m != nil {
			return Frame{Func: m[1], Native: true}, true
		}
		return Frame{}, false
	})
}

type interpParser struct{}

func (interpParser) Parse(raw string) (string, []Frame) {
	return split(raw, "in ", func(body string) (Frame, bool) {
		m := interpPos.FindStringSubmatch("in " + body)
		if m == nil {
			return Frame{}, false
		}
		name := m[1]
		if name == "<anonymous>" {
			name = ""
		}
		if m[2] == "" && m[3] == "" {
			return Frame{Func: name, Native: true}, true
		}
		return Frame{Func: name, File: m[2], Line: atoi(m[3]), Column: atoi(m[4])}, true
	})
}

// split treats every line starting with prefix (after indentation) as a
// frame; lines before the first frame form the message.
func split(raw, prefix string, frame func(body string) (Frame, bool)) (string, []Frame) {
	var (
		msg    []string
		frames []Frame
	)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if body, ok := strings.CutPrefix(trimmed, prefix); ok {
			if f, ok := frame(body); ok {
				frames = append(frames, f)
				continue
			}
		}
		if len(frames) == 0 {
			msg = append(msg, trimmed)
		}
	}
	return strings.Join(msg, "\n"), frames
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
