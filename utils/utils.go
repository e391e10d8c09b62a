package utils

import (
	"strconv"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	return HashBytes([]byte(s))
}

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// FormatHash renders a hash the way it appears in keys and responses.
func FormatHash(h uint64) string {
	return strconv.FormatUint(h, 16)
}
