// Package conv holds allocation-free numeric formatting for MCU-safe
// output paths where fmt and strconv are too heavy.
package conv

// Utoa renders n in base 10 into buf and returns the used tail slice.
// buf needs 20 bytes for the full uint64 range.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// U16Hex renders n as 4 zero-padded uppercase hex digits, no prefix.
func U16Hex(buf []byte, n uint16) []byte {
	if len(buf) < 4 {
		return buf[:0]
	}
	const digits = "0123456789ABCDEF"
	i := len(buf)
	for j := 0; j < 4; j++ {
		i--
		buf[i] = digits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
