package metadata

/**
 * @brief Decoded texture pixels, always 8-bit RGBA, tightly packed rows.
 */
type TextureData struct {
	Width  int
	Height int
	Pixels []byte
}

func (t *TextureData) Size() uint64 {
	return uint64(len(t.Pixels))
}
