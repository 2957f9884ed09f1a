package sff

// decodeRLE8 implements the v2 codec tag 2 (§4.8). A data byte whose top
// two bits read 01 packs a 6-bit run length and is followed by the value
// byte; any other byte is a literal value with an implicit run of 1.
func decodeRLE8(src []byte, width, height int) []byte {
	out := make([]byte, width*height)
	i := 0
	for j := 0; j < len(out); {
		d := saturatingByte(src, i)
		i++
		n := 1
		if d&0xC0 == 0x40 {
			n = int(d & 0x3F)
			d = saturatingByte(src, i)
			i++
		}
		for ; n > 0 && j < len(out); n-- {
			out[j] = d
			j++
		}
	}
	return out
}
