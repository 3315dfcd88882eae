package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the output encoding of trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // indented, human-readable
	FormatNDJSON               // one JSON object per line
	FormatChrome               // chrome://tracing / Perfetto JSON array
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "chrome":
		return FormatChrome, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
}

// FormatForPath picks a format from a file extension: .ndjson for NDJSON,
// .json for Chrome, text otherwise.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

// encoder turns events into bytes. It carries the state the text and
// Chrome formats need and is not safe for concurrent use.
type encoder struct {
	format Format
	start  time.Time
	depth  map[uint64]int // span id -> nesting depth, for text
	wrote  bool           // chrome: an event precedes
}

func newEncoder(format Format) *encoder {
	if format == FormatAuto {
		format = FormatText
	}
	return &encoder{format: format, depth: make(map[uint64]int)}
}

func (e *encoder) header() []byte {
	if e.format == FormatChrome {
		return []byte("{\"traceEvents\":[\n")
	}
	return nil
}

func (e *encoder) footer() []byte {
	if e.format == FormatChrome {
		return []byte("\n]}\n")
	}
	return nil
}

func (e *encoder) encode(ev *Event) []byte {
	if e.start.IsZero() {
		e.start = ev.Time
	}
	switch e.format {
	case FormatNDJSON:
		return e.ndjson(ev)
	case FormatChrome:
		return e.chrome(ev)
	default:
		return e.text(ev)
	}
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func (e *encoder) ndjson(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// chromeEvent is one entry of the Trace Event Format.
type chromeEvent struct {
	Name string            `json:"name"`
	Cat  string            `json:"cat"`
	Ph   string            `json:"ph"`
	TS   int64             `json:"ts"` // microseconds
	PID  int               `json:"pid"`
	TID  uint64            `json:"tid"`
	S    string            `json:"s,omitempty"`
	Args map[string]string `json:"args,omitempty"`
}

func (e *encoder) chrome(ev *Event) []byte {
	ce := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		TS:   ev.Time.Sub(e.start).Microseconds(),
		PID:  1,
		TID:  ev.GID,
	}
	switch ev.Kind {
	case KindSpanBegin:
		ce.Ph = "B"
	case KindSpanEnd:
		ce.Ph = "E"
	default:
		ce.Ph, ce.S = "i", "g"
	}
	if ev.Detail != "" || len(ev.Extra) > 0 {
		ce.Args = make(map[string]string, len(ev.Extra)+1)
		maps.Copy(ce.Args, ev.Extra)
		if ev.Detail != "" {
			ce.Args["detail"] = ev.Detail
		}
	}
	data, err := json.Marshal(ce)
	if err != nil {
		return nil
	}
	if e.wrote {
		data = append([]byte(",\n"), data...)
	}
	e.wrote = true
	return data
}

// text renders one indented line per event: timestamp relative to the
// first event, an arrow, the name, detail and sorted extras.
func (e *encoder) text(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%8.3fms] ", float64(ev.Time.Sub(e.start).Microseconds())/1000)

	depth := 0
	switch ev.Kind {
	case KindSpanBegin:
		if ev.ParentID != 0 {
			depth = e.depth[ev.ParentID] + 1
		}
		e.depth[ev.SpanID] = depth
	case KindSpanEnd:
		depth = e.depth[ev.SpanID]
		delete(e.depth, ev.SpanID)
	default:
		if d, ok := e.depth[ev.ParentID]; ok {
			depth = d + 1
		}
	}
	sb.WriteString(strings.Repeat("  ", depth))

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("\u2192 ")
	case KindSpanEnd:
		sb.WriteString("\u2190 ")
	case KindPoint:
		sb.WriteString("\u2022 ")
	case KindHeartbeat:
		sb.WriteString("\u2661 ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		sb.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

// writeAll encodes events with a fresh encoder, framing included.
func writeAll(w io.Writer, events []Event, format Format) error {
	enc := newEncoder(format)
	if _, err := w.Write(enc.header()); err != nil {
		return err
	}
	for i := range events {
		if _, err := w.Write(enc.encode(&events[i])); err != nil {
			return err
		}
	}
	_, err := w.Write(enc.footer())
	return err
}
