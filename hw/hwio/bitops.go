package hwio

// 32-bit operations
func GetBit32(v uint32, n uint) bool {
	return GetBiti32(v, n) != 0
}

func GetBiti32(v uint32, n uint) uint32 {
	return v >> (n) & 0x01
}

func SetBit32(v *uint32, n uint) {
	*v |= (1 << n)
}

func ClearBit32(v *uint32, n uint) {
	*v &= ^(1 << n)
}

func FlipBit32(v *uint32, n uint) {
	*v ^= (1 << n)
}

// Bits32 extracts the width-bit field starting at bit pos.
func Bits32(v uint32, pos, width uint) uint32 {
	return v >> pos & (1<<width - 1)
}

// SetBits32 replaces the width-bit field starting at bit pos with field.
// Extra bits in field are discarded.
func SetBits32(v *uint32, pos, width uint, field uint32) {
	mask := uint32(1<<width-1) << pos
	*v = *v&^mask | (field<<pos)&mask
}

// Bool32 returns 1<<n if b is true, 0 otherwise.
func Bool32(b bool, n uint) uint32 {
	if b {
		return 1 << n
	}
	return 0
}
