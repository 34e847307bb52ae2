package bnu

import "errors"

var ErrOverflow = errors.New("bnu: value does not fit in the destination")

// SetBytes interprets buf as a big-endian integer and stores it in z.
// Leading zero octets beyond the capacity of z are accepted.
func SetBytes(z []Word, buf []byte) error {
	Zero(z)
	for i := 0; i < len(buf); i++ {
		b := buf[len(buf)-1-i]
		if i >= len(z)*WordBytes {
			if b != 0 {
				return ErrOverflow
			}
			continue
		}
		z[i/WordBytes] |= Word(b) << (8 * uint(i%WordBytes))
	}
	return nil
}

// FillBytes writes x into buf as a big-endian integer, zero-padded to the full length of buf.
func FillBytes(x []Word, buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	for i := 0; i < len(x)*WordBytes; i++ {
		b := byte(x[i/WordBytes] >> (8 * uint(i%WordBytes)))
		if i >= len(buf) {
			if b != 0 {
				return ErrOverflow
			}
			continue
		}
		buf[len(buf)-1-i] = b
	}
	return nil
}
