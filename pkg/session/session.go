// Package session models the traffic sessions extracted from a capture by
// the upstream classifier and prepares them for alignment with
// representations.
package session

import (
	"math"
	"strings"
)

type (
	// Packet is one packet record of a session
	Packet struct {
		Time   float64 `json:"ts" bson:"ts"`         // epoch seconds
		Length int     `json:"length" bson:"length"` // bytes on the wire
	}

	// Info holds the session metadata used to describe a flow
	Info struct {
		Protocol          string `json:"protocol" bson:"protocol"` // zero padded IP protocol number, e.g. "06"
		Source            string `json:"source" bson:"source"`
		Destination       string `json:"destination" bson:"destination"`
		InitiatedBySource bool   `json:"initiated_by_source" bson:"initiated_by_source"`
	}

	// Descriptor is a single session: its metadata, key and ordered packets
	Descriptor struct {
		Info    `bson:",inline"`
		Key     string   `json:"key" bson:"key"`
		Packets []Packet `json:"packets" bson:"packets"`
	}
)

// DefaultKey builds the key identifying a session from its endpoint pair
// and protocol
func DefaultKey(info Info) string {
	return strings.Join([]string{info.Source, info.Destination, info.Protocol}, "|")
}

// FirstPacketTime returns the time of the first packet of the session.
// ok is false when the session has no packets.
func (d Descriptor) FirstPacketTime() (ts float64, ok bool) {
	if len(d.Packets) == 0 {
		return 0, false
	}
	return d.Packets[0].Time, true
}

// TotalBytes sums the length of every packet in the session
func (d Descriptor) TotalBytes() int {
	total := 0
	for _, packet := range d.Packets {
		total += packet.Length
	}
	return total
}

// Duration is the time between the first and last packet of the session
func (d Descriptor) Duration() float64 {
	if len(d.Packets) < 2 {
		return 0
	}
	first, last := d.Packets[0].Time, d.Packets[0].Time
	for _, packet := range d.Packets[1:] {
		first = math.Min(first, packet.Time)
		last = math.Max(last, packet.Time)
	}
	return last - first
}
