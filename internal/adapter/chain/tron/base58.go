package tron

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math/big"
)

const b58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	b58Index  [128]int8
	bigRadix  = big.NewInt(58)
	errB58    = errors.New("invalid base58 string")
	errChksum = errors.New("base58 checksum mismatch")
)

func init() {
	for i := range b58Index {
		b58Index[i] = -1
	}
	for i, c := range b58Alphabet {
		b58Index[c] = int8(i)
	}
}

func b58Encode(input []byte) string {
	x := new(big.Int).SetBytes(input)
	mod := new(big.Int)

	out := make([]byte, 0, len(input)*138/100+1)
	for x.Sign() > 0 {
		x.DivMod(x, bigRadix, mod)
		out = append(out, b58Alphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, b58Alphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func b58Decode(s string) ([]byte, error) {
	x := new(big.Int)
	for _, c := range s {
		if c >= 128 || b58Index[c] < 0 {
			return nil, errB58
		}
		x.Mul(x, bigRadix)
		x.Add(x, big.NewInt(int64(b58Index[c])))
	}

	decoded := x.Bytes()
	var zeros int
	for _, c := range s {
		if c != rune(b58Alphabet[0]) {
			break
		}
		zeros++
	}
	return append(make([]byte, zeros), decoded...), nil
}

// b58CheckEncode appends a 4-byte double-SHA256 checksum before encoding.
func b58CheckEncode(payload []byte) string {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return b58Encode(append(payload, second[:4]...))
}

// b58CheckDecode decodes and verifies the trailing checksum.
func b58CheckDecode(s string) ([]byte, error) {
	raw, err := b58Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < 5 {
		return nil, errB58
	}
	payload, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(second[:4], checksum) {
		return nil, errChksum
	}
	return payload, nil
}
