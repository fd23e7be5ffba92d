package cardgen

import (
	"crypto/rand"
	"strings"
)

const (
	numberLen     = 16
	amexNumberLen = 15
)

// Source yields uniform integers in [0, n). *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// CryptoSource draws from crypto/rand. Samples that would bias the modulo are rejected.
type CryptoSource struct{}

func (CryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("cardgen: invalid argument to Intn")
	}
	const space = uint64(1) << 32
	limit := space - space%uint64(n)
	var b [4]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic("cardgen: crypto/rand: " + err.Error())
		}
		v := uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
		if v < limit {
			return int(v % uint64(n))
		}
	}
}

// RandomDigits returns count uniform decimal digits. Leading zeros are kept.
func RandomDigits(src Source, count int) string {
	if count <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(count)
	for i := 0; i < count; i++ {
		sb.WriteByte('0' + byte(src.Intn(10)))
	}
	return sb.String()
}

// CheckDigit computes the Luhn digit that makes body+digit pass ValidLuhn.
func CheckDigit(body string) byte {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return '0' + byte((10-(sum%10))%10)
}

// ValidLuhn reports whether number is a non-empty digit string with a Luhn sum divisible by 10.
func ValidLuhn(number string) bool {
	if number == "" || !IsDigits(number) {
		return false
	}
	return number[len(number)-1] == CheckDigit(number[:len(number)-1])
}

// CVVLength returns 4 for the 34/37 network prefixes, 3 otherwise.
func CVVLength(prefix string) int {
	if strings.HasPrefix(prefix, "34") || strings.HasPrefix(prefix, "37") {
		return 4
	}
	return 3
}

// TargetLength is the full number length a prefix generates to.
func TargetLength(prefix string) int {
	if CVVLength(prefix) == 4 {
		return amexNumberLen
	}
	return numberLen
}

// Complete pads prefix with random digits up to totalLen-1 and appends the check digit.
func Complete(src Source, prefix string, totalLen int) string {
	body := prefix + RandomDigits(src, totalLen-1-len(prefix))
	return body + string(CheckDigit(body))
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func MaskPAN(pan string) string {
	cleaned := NormalizePAN(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + cleaned[n-4:]
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + cleaned[n-4:]
}

// NormalizePAN strips spaces, tabs and dashes.
func NormalizePAN(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}
