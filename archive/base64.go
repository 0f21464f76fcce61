package archive

import "encoding/base64"

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Lookup = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		t[base64Alphabet[i]] = int8(i)
	}
	return t
}()

// Base64EncodedLen returns the padded encoded length of n bytes. The result
// is always a multiple of four and zero for n == 0.
func Base64EncodedLen(n int) int {
	return ((4 * n / 3) + 3) &^ 3
}

// Base64DecodedLen returns an upper bound on the decoded length of n encoded
// characters.
func Base64DecodedLen(n int) int {
	return n * 3 / 4
}

// Base64Encode encodes src into dst with '=' padding and returns the number
// of bytes written. dst must hold Base64EncodedLen(len(src)) bytes.
func Base64Encode(dst, src []byte) int {
	n := base64.StdEncoding.EncodedLen(len(src))
	base64.StdEncoding.Encode(dst, src)
	return n
}

// Base64Decode decodes src into dst and returns the number of bytes written.
// Decoding stops without error at the first byte outside the alphabet,
// padding included, and never writes past len(dst).
func Base64Decode(dst, src []byte) int {
	out := 0
	val, bits := 0, -8
	for _, c := range src {
		d := base64Lookup[c]
		if d < 0 {
			break
		}
		val = (val << 6) | int(d)
		bits += 6
		if bits >= 0 {
			if out == len(dst) {
				break
			}
			dst[out] = byte(val >> bits)
			out++
			bits -= 8
			val &= 1<<(bits+8) - 1
		}
	}
	return out
}
