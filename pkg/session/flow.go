package session

import (
	"strconv"
	"strings"

	"github.com/google/gopacket/layers"
)

var mnemonics = map[layers.IPProtocol]string{
	layers.IPProtocolICMPv4: "ICMP",
	layers.IPProtocolTCP:    "TCP",
	layers.IPProtocolUDP:    "UDP",
}

// IPProtocol parses the decimal protocol number of the session, with or
// without zero padding. ok is false when it is not a number in 0-255.
func (i Info) IPProtocol() (proto layers.IPProtocol, ok bool) {
	num, err := strconv.ParseUint(strings.TrimSpace(i.Protocol), 10, 8)
	if err != nil {
		return 0, false
	}
	return layers.IPProtocol(num), true
}

// ProtocolName turns the TCP, UDP and ICMP protocol numbers into their
// mnemonics. Any other protocol is returned unchanged.
func ProtocolName(protocol string) string {
	proto, ok := Info{Protocol: protocol}.IPProtocol()
	if !ok {
		return protocol
	}
	if name, ok := mnemonics[proto]; ok {
		return name
	}
	return protocol
}

// Flow renders the session as "<protocol> <initiator> to <responder>"
func (i Info) Flow() string {
	proto := ProtocolName(i.Protocol)
	if i.InitiatedBySource {
		return proto + " " + i.Source + " to " + i.Destination
	}
	return proto + " " + i.Destination + " to " + i.Source
}
