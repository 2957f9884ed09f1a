package sff

// decodeLZ5 implements the v2 codec tag 4 (§4.10): an LZSS-style scheme
// where one control byte's 8 bits gate the next 8 tokens between literal
// runs and back-references, with an offset encoding split across two
// possible byte widths plus a 2-bit accumulator for the rare 10-bit case.
func decodeLZ5(src []byte, width, height int) []byte {
	out := make([]byte, width*height)
	if len(src) == 0 {
		return out
	}

	i := 0
	ct := saturatingByte(src, i)
	i++
	var cts uint
	var rb byte
	var rbc uint

	j := 0
	for j < len(out) {
		d := int(saturatingByte(src, i))
		i++

		if ct&byte(1<<cts) != 0 {
			// Back-reference token.
			var n, offset int
			if d&0x3F == 0 {
				d = (d<<2 | int(saturatingByte(src, i))) + 1
				i++
				n = int(saturatingByte(src, i)) + 2
				i++
				offset = d
			} else {
				rb |= byte(d&0xC0) >> rbc
				rbc += 2
				n = d & 0x3F
				if rbc < 8 {
					offset = int(saturatingByte(src, i)) + 1
					i++
				} else {
					offset = int(rb) + 1
					rb, rbc = 0, 0
				}
			}
			for n >= 0 {
				if j < len(out) && j-offset >= 0 {
					out[j] = out[j-offset]
					j++
				} else if j < len(out) {
					j++
				}
				n--
			}
		} else {
			var n int
			var lit byte
			if d&0xE0 == 0 {
				n = int(saturatingByte(src, i)) + 8
				i++
				lit = byte(d & 0x1F)
			} else {
				n = d >> 5
				lit = byte(d & 0x1F)
			}
			for ; n > 0; n-- {
				if j < len(out) {
					out[j] = lit
					j++
				}
			}
		}

		cts++
		if cts >= 8 {
			ct = saturatingByte(src, i)
			i++
			cts = 0
		}
	}
	return out
}
