package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistics(t *testing.T) {
	s := NewStatistics()

	s.Sent(5, nil)
	s.Sent(4, nil)
	s.Sent(3, errors.New("nack"))
	s.Received(11, nil)
	s.Received(11, errors.New("timeout"))

	assert.Equal(t, Stats{
		Sends:         2,
		Receives:      1,
		BytesSent:     9,
		BytesReceived: 11,
		SendErrors:    1,
		ReceiveErrors: 1,
	}, s.Snapshot())

	s.Reset()
	assert.Equal(t, Stats{}, s.Snapshot())
}
