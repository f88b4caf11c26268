package prover

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Channel is a Fiat-Shamir transcript. Every message is absorbed into a
// running hash state and recorded; challenges are derived from the state.
type Channel struct {
	state    []byte
	log      []string
	hashFunc string
}

// NewChannel creates a channel over "sha3" (the default) or "sha256"
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		state:    []byte{0},
		log:      make([]string, 0, 64),
		hashFunc: hashFunc,
	}
}

// Send absorbs data into the channel state
func (c *Channel) Send(data []byte) {
	c.log = append(c.log, fmt.Sprintf("send:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.state, data...))
}

// SendElements absorbs field elements in little-endian encoding
func (c *Channel) SendElements(elems ...field.Element) {
	buf := make([]byte, 8*len(elems))
	for i, e := range elems {
		binary.LittleEndian.PutUint64(buf[8*i:], e.Value())
	}
	c.Send(buf)
}

// SendUint64s absorbs raw values in little-endian encoding
func (c *Channel) SendUint64s(values ...uint64) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], v)
	}
	c.Send(buf)
}

// ReceiveIndex derives an index in [0, n) from the state. n must be positive.
func (c *Channel) ReceiveIndex(n int) int {
	idx := int(binary.LittleEndian.Uint64(c.state[:8]) % uint64(n))
	c.log = append(c.log, fmt.Sprintf("receiveIndex:%d", idx))
	c.state = c.hash(c.state)
	return idx
}

// ReceiveElement derives a field element from the state
func (c *Channel) ReceiveElement() field.Element {
	v := binary.LittleEndian.Uint64(c.state[:8]) % field.P
	c.log = append(c.log, fmt.Sprintf("receiveElement:%d", v))
	c.state = c.hash(c.state)
	return field.New(v)
}

// State returns the current channel state
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Log returns the transcript messages
func (c *Channel) Log() []string {
	return append([]string(nil), c.log...)
}

func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}

func (c *Channel) String() string {
	return strings.Join(c.log, " ")
}
