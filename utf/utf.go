// Package utf converts between UTF-8, UTF-16 and UTF-32 the way the JVM
// boundary needs it.
//
// Java strings are UTF-16 and may contain unpaired surrogates; Go strings are
// UTF-8. All conversions here are total: malformed input never fails, every
// ill-formed sequence is replaced by U+FFFD and decoding resynchronises on the
// next byte or code unit that can start a valid sequence.
package utf

// Replacement is the code point substituted for ill-formed input.
const Replacement = 0xFFFD

const (
	maxRune      = 0x10FFFF
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	leadMin      = 0xD800
	leadMax      = 0xDBFF
	trailMin     = 0xDC00
	trailMax     = 0xDFFF
	surrSelf     = 0x10000
)

func isLead(u uint16) bool  { return u >= leadMin && u <= leadMax }
func isTrail(u uint16) bool { return u >= trailMin && u <= trailMax }

func combine(lead, trail uint16) rune {
	return (rune(lead)-leadMin)<<10 + (rune(trail) - trailMin) + surrSelf
}

// AppendRuneUTF16 appends the UTF-16 encoding of r to dst. Code points beyond
// U+10FFFF and surrogate code points are written as U+FFFD.
func AppendRuneUTF16(dst []uint16, r rune) []uint16 {
	switch {
	case r < 0 || r > maxRune || (r >= surrogateMin && r <= surrogateMax):
		return append(dst, Replacement)
	case r >= surrSelf:
		r -= surrSelf
		return append(dst, uint16(leadMin+(r>>10)), uint16(trailMin+(r&0x3FF)))
	default:
		return append(dst, uint16(r))
	}
}

// AppendRuneUTF8 appends the UTF-8 encoding of a valid code point.
func AppendRuneUTF8(dst []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, byte(0xC0|r>>6), byte(0x80|r&0x3F))
	case r < 0x10000:
		return append(dst, byte(0xE0|r>>12), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
	default:
		return append(dst, byte(0xF0|r>>18), byte(0x80|(r>>12)&0x3F), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
	}
}

// decodeUTF16 calls emit for every code point in src. A lead surrogate not
// followed by a trail surrogate and a lone trail surrogate both produce
// U+FFFD; the unit after an unpaired lead is decoded on its own.
func decodeUTF16(src []uint16, emit func(rune)) {
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case isLead(u):
			if i+1 < len(src) && isTrail(src[i+1]) {
				emit(combine(u, src[i+1]))
				i++
			} else {
				emit(Replacement)
			}
		case isTrail(u):
			emit(Replacement)
		default:
			emit(rune(u))
		}
	}
}

// UTF16ToUTF32 decodes UTF-16 code units into code points.
func UTF16ToUTF32(src []uint16) []rune {
	out := make([]rune, 0, len(src))
	decodeUTF16(src, func(r rune) { out = append(out, r) })
	return out
}

// UTF32ToUTF16 encodes code points as UTF-16.
func UTF32ToUTF16(src []rune) []uint16 {
	out := make([]uint16, 0, len(src))
	for _, r := range src {
		out = AppendRuneUTF16(out, r)
	}
	return out
}

// UTF16ToUTF8 encodes UTF-16 code units as UTF-8.
func UTF16ToUTF8(src []uint16) []byte {
	out := make([]byte, 0, len(src))
	decodeUTF16(src, func(r rune) { out = AppendRuneUTF8(out, r) })
	return out
}

// UTF16ToString is UTF16ToUTF8 returning a Go string.
func UTF16ToString(src []uint16) string {
	return string(UTF16ToUTF8(src))
}

// UTF8ToUTF16 decodes UTF-8 with the DFA in Decoder and encodes the result
// as UTF-16.
func UTF8ToUTF16(src []byte) []uint16 {
	out := make([]uint16, 0, len(src))
	decodeUTF8(src, func(r rune) { out = AppendRuneUTF16(out, r) })
	return out
}

// StringToUTF16 is UTF8ToUTF16 for a Go string.
func StringToUTF16(s string) []uint16 {
	return UTF8ToUTF16([]byte(s))
}

// UTF8ToUTF32 decodes UTF-8 into code points.
func UTF8ToUTF32(src []byte) []rune {
	out := make([]rune, 0, len(src))
	decodeUTF8(src, func(r rune) { out = append(out, r) })
	return out
}

func decodeUTF8(src []byte, emit func(rune)) {
	var d Decoder
	first := true
	for i := 0; i < len(src); i++ {
		b := src[i]
		if first && b < 0x80 {
			emit(rune(b))
			continue
		}
		switch d.Put(b) {
		case StateAccept:
			emit(d.Value())
			first = true
		case StateReject:
			emit(Replacement)
			d.Reset()
			if !first {
				// the byte that broke the sequence may start a new one
				i--
			}
			first = true
		default:
			first = false
		}
	}
	if !first {
		emit(Replacement)
	}
}
