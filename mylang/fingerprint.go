package mylang

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/segmentio/fasthash/fnv1a"
	"github.com/zeebo/blake3"
	"lukechampine.com/uint128"
)

// Fingerprint hashes the structure of program. Two sources that differ only
// in layout or redundant parentheses have the same fingerprint.
func Fingerprint(program *Program) uint64 {
	return rapidhash([]byte(Serialize(program)))
}

// SourceDigest is the blake3 digest of the raw source text.
func SourceDigest(source string) []byte {
	h := blake3.New()
	h.WriteString(source)
	return h.Sum(nil)
}

func SourceDigestHex(source string) string {
	return hex.EncodeToString(SourceDigest(source))
}

// FilesDigest folds per-file digests, in order, into one value.
func FilesDigest(digests [][]byte) uint64 {
	h := fnv1a.Init64
	for _, digest := range digests {
		h = fnv1a.AddBytes64(h, digest)
	}
	return h
}

// rapidhash, default seed and secret.
const rapidSeed uint64 = 0xbdd89aa982704029

var rapidSecret = [3]uint64{0x2d358dccaa6c78a5, 0x8bb84b93962eacc9, 0x4b33a62ed433d4a3}

// 64*64 -> 128 bit multiply, returning the low and high halves.
func rapidMum(a, b uint64) (uint64, uint64) {
	r := uint128.From64(a).Mul(uint128.From64(b))
	return r.Lo, r.Hi
}

func rapidMix(a, b uint64) uint64 {
	lo, hi := rapidMum(a, b)
	return lo ^ hi
}

func read64(p []byte) uint64 { return binary.LittleEndian.Uint64(p) }
func read32(p []byte) uint64 { return uint64(binary.LittleEndian.Uint32(p)) }

func rapidhash(key []byte) uint64 {
	return rapidhashWithSeed(key, rapidSeed)
}

func rapidhashWithSeed(key []byte, seed uint64) uint64 {
	n := len(key)
	secret := rapidSecret
	seed ^= rapidMix(seed^secret[0], secret[1]) ^ uint64(n)
	var a, b uint64

	if n <= 16 {
		if n >= 4 {
			last := n - 4
			a = read32(key)<<32 | read32(key[last:])
			delta := (n & 24) >> (n >> 3)
			b = read32(key[delta:])<<32 | read32(key[last-delta:])
		} else if n > 0 {
			a = uint64(key[0])<<56 | uint64(key[n>>1])<<32 | uint64(key[n-1])
		}
	} else {
		p, i := 0, n
		if i > 48 {
			see1, see2 := seed, seed
			for i >= 48 {
				seed = rapidMix(read64(key[p:])^secret[0], read64(key[p+8:])^seed)
				see1 = rapidMix(read64(key[p+16:])^secret[1], read64(key[p+24:])^see1)
				see2 = rapidMix(read64(key[p+32:])^secret[2], read64(key[p+40:])^see2)
				p += 48
				i -= 48
			}
			seed ^= see1 ^ see2
		}
		if i > 16 {
			seed = rapidMix(read64(key[p:])^secret[2], read64(key[p+8:])^seed^secret[1])
			if i > 32 {
				seed = rapidMix(read64(key[p+16:])^secret[2], read64(key[p+24:])^seed)
			}
		}
		// The tail reads may reach back into bytes already consumed.
		a = read64(key[p+i-16:])
		b = read64(key[p+i-8:])
	}
	a ^= secret[1]
	b ^= seed
	a, b = rapidMum(a, b)
	return rapidMix(a^secret[0]^uint64(n), b^secret[1])
}
