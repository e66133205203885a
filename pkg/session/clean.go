package session

import (
	"net"
	"sort"

	"github.com/scottkelso/PoseidonML/util"
)

// Source picks the local address of a capture: the private address that
// takes part in the most sessions. Public addresses are only considered
// when no private address is seen. Ties go to the lexically smaller address.
func Source(sessions []Descriptor) string {
	private := make(map[string]int)
	public := make(map[string]int)

	for _, sess := range sessions {
		hosts := []string{util.EndpointHost(sess.Source), util.EndpointHost(sess.Destination)}
		if hosts[0] == hosts[1] {
			hosts = hosts[:1]
		}
		for _, host := range hosts {
			if host == "" {
				continue
			}
			ip := net.ParseIP(host)
			if ip != nil && !util.IPIsPubliclyRoutable(ip) {
				private[host]++
			} else {
				public[host]++
			}
		}
	}

	if len(private) > 0 {
		return mostFrequent(private)
	}
	return mostFrequent(public)
}

func mostFrequent(counts map[string]int) string {
	best := ""
	bestCount := 0
	for host, count := range counts {
		if count > bestCount || (count == bestCount && host < best) {
			best = host
			bestCount = count
		}
	}
	return best
}

// Clean groups the sessions of a capture by key. Only sessions with the
// source address as an endpoint are kept, unless source is empty. Packet
// lists of descriptors sharing a key are merged and ordered by time, the
// metadata of the first descriptor seen for a key is kept. Sessions are
// returned ordered by first packet time, then key; sessions without packets
// come last.
func Clean(sessions []Descriptor, source string) []Descriptor {
	grouped := make(map[string]*Descriptor)
	var keys []string

	for _, sess := range sessions {
		if source != "" &&
			util.EndpointHost(sess.Source) != source &&
			util.EndpointHost(sess.Destination) != source {
			continue
		}

		key := sess.Key
		if key == "" {
			key = DefaultKey(sess.Info)
		}

		existing, ok := grouped[key]
		if !ok {
			existing = &Descriptor{Info: sess.Info, Key: key}
			grouped[key] = existing
			keys = append(keys, key)
		}
		existing.Packets = append(existing.Packets, sess.Packets...)
	}

	cleaned := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		sess := grouped[key]
		sort.SliceStable(sess.Packets, func(i, j int) bool {
			return sess.Packets[i].Time < sess.Packets[j].Time
		})
		cleaned = append(cleaned, *sess)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		ti, iok := cleaned[i].FirstPacketTime()
		tj, jok := cleaned[j].FirstPacketTime()
		switch {
		case iok && jok && ti != tj:
			return ti < tj
		case iok != jok:
			return iok
		default:
			return cleaned[i].Key < cleaned[j].Key
		}
	})
	return cleaned
}
