package synth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	cases := []struct {
		in   string
		want CardSpec
	}{
		{"424242", CardSpec{Prefix: "424242"}},
		{" 424242 | 07 | 29 | 123 ", CardSpec{Prefix: "424242", Expiry: "07|29", CVV: "123"}},
		{"424242|07", CardSpec{Prefix: "424242"}},
		{"424242||29|123", CardSpec{Prefix: "424242", CVV: "123"}},
		{"424242|07||123", CardSpec{Prefix: "424242", CVV: "123"}},
		{"340000|01|30|1234|extra", CardSpec{Prefix: "340000", Expiry: "01|30", CVV: "1234"}},
		{"", CardSpec{}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ParseSpec(c.in), "input %q", c.in)
	}
}

func TestRequiredCvvLength(t *testing.T) {
	require.Equal(t, 4, RequiredCvvLength("340000"))
	require.Equal(t, 4, RequiredCvvLength("378282"))
	require.Equal(t, 3, RequiredCvvLength("424242"))
	require.Equal(t, 3, RequiredCvvLength("360000"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"424242", nil},
		{"424242424242", nil},
		{"424242|12|25|999", nil},
		{"340000|01|30|1234", nil},
		{"123|12|25|999", ErrInvalidPrefix},
		{"4242424242424", ErrInvalidPrefix},
		{"42424a", ErrInvalidPrefix},
		{"4242424242|13|25", ErrInvalidExpiry},
		{"4242424242|00|25", ErrInvalidExpiry},
		{"4242424242|1|25", ErrInvalidExpiry},
		{"4242424242|12|2025", ErrInvalidExpiry},
		{"424242|12|25|1234", ErrInvalidCvv},
		{"340000|12|25|123", ErrInvalidCvv},
		{"424242|12|25|12a", ErrInvalidCvv},
		{"424242|||99", ErrInvalidCvv},
	}
	for _, c := range cases {
		err := Validate(ParseSpec(c.in))
		if c.want == nil {
			require.NoError(t, err, c.in)
			continue
		}
		require.ErrorIs(t, err, c.want, c.in)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), c.in)
	}
}

func TestValidate_PrefixCheckedFirst(t *testing.T) {
	err := Validate(ParseSpec("12|13|25|1"))
	require.ErrorIs(t, err, ErrInvalidPrefix)
}
