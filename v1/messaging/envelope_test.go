package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

func TestAppendEnvelopeLayout(t *testing.T) {
	id := registry.MustParseSchemaID(addressID)
	data := appendEnvelope(CompressionDisabled, id, []byte{0xaa, 0xbb})

	require.Len(t, data, HeaderSize+2)
	assert.Equal(t, []byte{
		0x03, 0x00,
		0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78,
		0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78,
		0xaa, 0xbb,
	}, data)

	flag, gotID, payload, err := splitEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, CompressionDisabled, flag)
	assert.Equal(t, id, gotID)
	assert.Equal(t, []byte{0xaa, 0xbb}, payload)
}

func TestSplitEnvelopeHeaderOnly(t *testing.T) {
	data := appendEnvelope(CompressionDisabled, registry.NewSchemaID(), nil)
	_, _, payload, err := splitEnvelope(data)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestCompressorTable(t *testing.T) {
	c, err := compressorFor(CompressionDisabled)
	require.NoError(t, err)
	out, err := c.Compress([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), out)

	c, err = compressorFor(CompressionEnabled)
	require.NoError(t, err)
	assert.Equal(t, CompressionEnabled, c.Flag())
	_, err = c.Decompress([]byte("x"))
	assert.True(t, IsUnsupportedOperation(err))
	_, err = c.Compress([]byte("x"))
	assert.True(t, IsUnsupportedOperation(err))

	_, err = compressorFor(0x01)
	assert.True(t, IsMalformedEnvelope(err))
}
