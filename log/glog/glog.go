// Package glog adapts nrf1.Logger onto github.com/golang/glog, which has no
// structured-field API of its own: fields are folded into the message as
// "key=value" pairs in sorted key order, for deterministic output.
package glog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/unkn0wn-root/nrf1"
)

var _ nrf1.Logger = Logger{}

// Logger is the zero-value-usable glog adapter; glog's own package-level
// functions carry all state, so there is nothing to configure here.
type Logger struct{}

func (Logger) Debug(msg string, f nrf1.Fields) { glog.V(1).Infoln(format(msg, f)) }
func (Logger) Info(msg string, f nrf1.Fields)  { glog.Infoln(format(msg, f)) }
func (Logger) Warn(msg string, f nrf1.Fields)  { glog.Warningln(format(msg, f)) }
func (Logger) Error(msg string, f nrf1.Fields) { glog.Errorln(format(msg, f)) }

func format(msg string, f nrf1.Fields) string {
	if len(f) == 0 {
		return msg
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmtValue(f[k]))
	}
	return b.String()
}

func fmtValue(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case error:
		return vv.Error()
	default:
		return fmt.Sprint(vv)
	}
}
