package loaders

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
)

// bytesToBytecode reinterprets little-endian SPIR-V bytes as 32-bit words.
func bytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w (got %d bytes)", core.ErrInvalidBytecode, len(b))
	}
	byteCode := make([]uint32, len(b)/4)
	for i := range byteCode {
		byteCode[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return byteCode, nil
}
