package codec

// None passes the payload through untouched.
type None struct{}

func (None) Decompress(src, _ []byte) ([]byte, error) {
	return src, nil
}
