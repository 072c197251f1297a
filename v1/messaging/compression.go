package messaging

import "fmt"

// Compressor transforms payloads for one compression flag value.
type Compressor interface {
	Flag() byte
	Compress(payload []byte) ([]byte, error)
	Decompress(payload []byte) ([]byte, error)
}

type identityCompressor struct{}

func (identityCompressor) Flag() byte { return CompressionDisabled }

func (identityCompressor) Compress(payload []byte) ([]byte, error) { return payload, nil }

func (identityCompressor) Decompress(payload []byte) ([]byte, error) { return payload, nil }

// unsupportedCompressor reserves a flag value without implementing it.
type unsupportedCompressor struct {
	flag byte
}

func (c unsupportedCompressor) Flag() byte { return c.flag }

func (c unsupportedCompressor) Compress([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: compression flag 0x%02x", ErrUnsupportedOperation, c.flag)
}

func (c unsupportedCompressor) Decompress([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: compression flag 0x%02x", ErrUnsupportedOperation, c.flag)
}

var compressors = map[byte]Compressor{
	CompressionDisabled: identityCompressor{},
	CompressionEnabled:  unsupportedCompressor{flag: CompressionEnabled},
}

// compressorFor returns the strategy for flag, or ErrMalformedEnvelope for
// values outside the table.
func compressorFor(flag byte) (Compressor, error) {
	c, ok := compressors[flag]
	if !ok {
		return nil, fmt.Errorf("%w: unknown compression flag 0x%02x", ErrMalformedEnvelope, flag)
	}
	return c, nil
}
