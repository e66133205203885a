package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorStatistics(t *testing.T) {
	sess := Descriptor{Packets: []Packet{{Time: 12, Length: 60}, {Time: 10, Length: 1500}, {Time: 15.5, Length: 40}}}

	first, ok := sess.FirstPacketTime()
	assert.True(t, ok)
	assert.Equal(t, 12.0, first)
	assert.Equal(t, 1600, sess.TotalBytes())
	assert.Equal(t, 5.5, sess.Duration())

	empty := Descriptor{}
	_, ok = empty.FirstPacketTime()
	assert.False(t, ok)
	assert.Equal(t, 0, empty.TotalBytes())
	assert.Equal(t, 0.0, empty.Duration())
}

func TestDefaultKey(t *testing.T) {
	info := Info{Protocol: "06", Source: "10.0.0.1:5000", Destination: "8.8.8.8:53"}
	assert.Equal(t, "10.0.0.1:5000|8.8.8.8:53|06", DefaultKey(info))
}
