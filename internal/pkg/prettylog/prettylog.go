// Package prettylog renders zap entries as short colored lines for the
// terminal. Files keep the plain console encoding.
package prettylog

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiBlack  = "\033[30m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiBgRed  = "\033[41m"
)

var bufPool = buffer.NewPool()

// Encoder is a zapcore.Encoder printing "time icon [name] message k=v".
type Encoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

// NewEncoder creates an Encoder. color enables ANSI escapes.
func NewEncoder(color bool) zapcore.Encoder {
	return &Encoder{MapObjectEncoder: zapcore.NewMapObjectEncoder(), color: color}
}

// ShouldColor reports whether stdout is a terminal that accepts colors.
func ShouldColor() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (e *Encoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return &Encoder{MapObjectEncoder: clone, color: e.color}
}

func (e *Encoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	all := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		all.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(all)
	}

	buf := bufPool.Get()
	e.paint(buf, ansiGray, entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendByte(' ')

	if entry.Level >= zapcore.ErrorLevel {
		e.paint(buf, ansiBgRed+ansiBlack, " "+strings.ToUpper(entry.Level.String())+" ")
	} else {
		icon, color := levelIcon(entry.Level)
		e.paint(buf, color, icon)
	}
	buf.AppendByte(' ')

	if entry.LoggerName != "" {
		e.paint(buf, ansiYellow, "["+entry.LoggerName+"]")
		buf.AppendByte(' ')
	}
	buf.AppendString(entry.Message)

	keys := make([]string, 0, len(all.Fields))
	for k := range all.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.AppendByte(' ')
		buf.AppendString(k)
		buf.AppendByte('=')
		buf.AppendString(quoteIfNeeded(fmt.Sprint(all.Fields[k])))
	}
	if entry.Stack != "" {
		buf.AppendByte('\n')
		buf.AppendString(entry.Stack)
	}
	buf.AppendByte('\n')
	return buf, nil
}

func (e *Encoder) paint(buf *buffer.Buffer, color, text string) {
	if e.color && color != "" {
		buf.AppendString(color)
		buf.AppendString(text)
		buf.AppendString(ansiReset)
		return
	}
	buf.AppendString(text)
}

func levelIcon(level zapcore.Level) (string, string) {
	switch level {
	case zapcore.DebugLevel:
		return "⚙", ansiGray
	case zapcore.WarnLevel:
		return "⚠", ansiYellow
	case zapcore.InfoLevel:
		return "ℹ", ansiCyan
	default:
		return "✔", ansiGreen
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \"=\n\r\t") {
		return strconv.Quote(s)
	}
	return s
}
