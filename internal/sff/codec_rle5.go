package sff

// decodeRLE5 implements the v2 codec tag 3 (§4.9): each group starts with a
// run of rl+1 pixels of one color (0, or an explicit 8-bit color when the
// top bit of the data-length byte is set), followed by dl samples that each
// pack a 5-bit color and a 3-bit run length (a run of that value + 1
// pixels), repeated until the output buffer fills.
func decodeRLE5(src []byte, width, height int) []byte {
	out := make([]byte, width*height)
	i, j := 0, 0
	for j < len(out) {
		rl := int(saturatingByte(src, i))
		i++

		db := saturatingByte(src, i)
		dl := int(db & 0x7F)
		var c byte
		if db>>7 != 0 {
			i++
			c = saturatingByte(src, i)
		}
		i++

		for {
			if j < len(out) {
				out[j] = c
				j++
			} else {
				break
			}
			rl--
			if rl < 0 {
				dl--
				if dl < 0 {
					break
				}
				next := saturatingByte(src, i)
				c = next & 0x1F
				rl = int(next >> 5)
				i++
			}
		}
	}
	return out
}
