package afsktnc

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders an address as CALL-SSID, omitting the SSID when zero, and
// marking digipeated repeaters with a trailing "*" (spec.md §6.3
// "ax25_print").
func (a Address) String() string {
	s := a.Call
	if a.SSID != 0 {
		s += "-" + strconv.Itoa(a.SSID)
	}
	if a.Repeated {
		s += "*"
	}
	return s
}

// String renders a frame in the familiar "SRC>DEST,RPT1,RPT2:payload"
// monitor form.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s>%s", m.Src, m.Dest)
	for _, r := range m.Repeaters {
		fmt.Fprintf(&b, ",%s", r)
	}
	b.WriteByte(':')
	b.Write(m.Payload)
	return b.String()
}
