package builder

import (
	"strconv"

	"github.com/voicecore/sipsrtp/sip"
	"github.com/voicecore/sipsrtp/sip/endpoint"
)

// FixupViaReceived implements §4.7's rport/received fix-up: when the top
// Via of an inbound message carries an empty-valued "rport" parameter
// (the sender requested symmetric response routing), the receiver fills
// "received=<ip>" unconditionally when the sent-by host differs from the
// observed source address, and "rport=<port>" always, from remoteEP — the
// transport-observed source of the packet.
func FixupViaReceived(msg *sip.Message, remoteEP endpoint.Endpoint) {
	via, ok := msg.Via()
	if !ok {
		return
	}
	top, ok := via.Top()
	if !ok {
		return
	}
	if _, hasRport := top.Params.Get("rport"); !hasRport {
		return
	}
	top.Params.Set("rport", strconv.Itoa(int(remoteEP.Port)))

	observedIP := remoteEP.IP.String()
	if top.SentBy.Host() != observedIP {
		top.Params.Set("received", observedIP)
	}
}
