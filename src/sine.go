package afsktnc

// Quarter-wave sine table, unsigned 8-bit samples centered at 128 over a
// full period. Only the first quarter of the wave is stored; the rest is
// reconstructed by symmetry in sineSample. Values copied from the BeRTOS
// AFSK modem's sin_table (bertos/net/afsk.c).
var sinTable = [sinLen / 4]uint8{
	128, 129, 131, 132, 134, 135, 137, 138, 140, 142, 143, 145, 146, 148, 149, 151,
	152, 154, 155, 157, 158, 160, 162, 163, 165, 166, 167, 169, 170, 172, 173, 175,
	176, 178, 179, 181, 182, 183, 185, 186, 188, 189, 190, 192, 193, 194, 196, 197,
	198, 200, 201, 202, 203, 205, 206, 207, 208, 210, 211, 212, 213, 214, 215, 217,
	218, 219, 220, 221, 222, 223, 224, 225, 226, 227, 228, 229, 230, 231, 232, 233,
	234, 234, 235, 236, 237, 238, 238, 239, 240, 241, 241, 242, 243, 243, 244, 245,
	245, 246, 246, 247, 248, 248, 249, 249, 250, 250, 250, 251, 251, 252, 252, 252,
	253, 253, 253, 253, 254, 254, 254, 254, 254, 255, 255, 255, 255, 255, 255, 255,
}

// sinLen is the full reconstructed wave length (DDS phase wraps modulo this).
const sinLen = 512

// sineSample reconstructs a full-period sine sample from the quarter-wave
// table. idx must be in [0, sinLen).
func sineSample(idx uint16) uint8 {
	newIdx := idx % (sinLen / 2)
	if newIdx >= sinLen/4 {
		newIdx = sinLen/2 - newIdx - 1
	}

	data := sinTable[newIdx]

	if idx >= sinLen/2 {
		return 255 - data
	}
	return data
}
