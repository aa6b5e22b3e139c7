package utf

// Decoder states reported by Put.
const (
	StateAccept = 0
	StateReject = 12
)

// utf8d is the byte-class table followed by the transition table of the
// Hoehrmann UTF-8 DFA. States are pre-multiplied by 12.
var utf8d = [...]uint8{
	// 0x00..0x7F
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 0x80..0x8F
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 0x90..0x9F
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	// 0xA0..0xBF
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	// 0xC0..0xDF
	8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	// 0xE0..0xEF
	10, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 3,
	// 0xF0..0xFF
	11, 6, 6, 6, 5, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,

	// transitions
	0, 12, 24, 36, 60, 96, 84, 12, 12, 12, 48, 72,
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
	12, 0, 12, 12, 12, 12, 12, 0, 12, 0, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 24, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 24, 12, 12, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 12, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
}

// Decoder is an incremental UTF-8 decoder. The zero value is ready to use.
type Decoder struct {
	state uint8
	value rune
}

// Put feeds one byte and returns the new state: StateAccept once a code
// point is complete, StateReject when the input is ill-formed, any other
// value while a sequence is in progress. After StateReject the decoder must
// be Reset.
func (d *Decoder) Put(b byte) int {
	class := utf8d[b]
	if d.state != StateAccept {
		d.value = rune(b&0x3F) | d.value<<6
	} else {
		d.value = rune((0xFF >> class) & b)
	}
	d.state = utf8d[256+int(d.state)+int(class)]
	return int(d.state)
}

// Value returns the code point decoded by the last accepting Put.
func (d *Decoder) Value() rune { return d.value }

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() { *d = Decoder{} }
