package baseindex

// nibbleIter is a lazy nibble-stream over a byte key, high nibble of each
// byte first. Each byte yields two nibbles: key iteration is how the radix
// tree addresses 16-ary children from an 8-bit-per-byte key.
type nibbleIter struct {
	key []byte
	pos int
}

func newNibbleIter(key []byte) *nibbleIter {
	return &nibbleIter{key: key}
}

// next returns the next nibble and true, or (0, false) once the key is exhausted.
func (it *nibbleIter) next() (byte, bool) {
	if it.pos >= len(it.key)*2 {
		return 0, false
	}

	b := it.key[it.pos/2]
	var nib byte
	if it.pos%2 == 0 {
		nib = b >> 4
	} else {
		nib = b & 0x0F
	}

	it.pos++
	return nib, true
}

// nibbleCount returns the total number of nibbles in key.
func nibbleCount(key []byte) int { return len(key) * 2 }

// nibbleAt returns the i-th nibble (0-indexed, high nibble first) of key.
func nibbleAt(key []byte, i int) byte {
	b := key[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0F
}
