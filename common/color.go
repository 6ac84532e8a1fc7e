package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBB value.
type Color uint32

// ParseColor accepts "#rrggbb", "0xrrggbb" or a bare "rrggbb".
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(raw), "#"), "0x")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

// RGB returns the color as linear-ish floats in [0, 1].
func (c Color) RGB() Vec3 {
	return Vec3{
		float32((c>>16)&0xff) / 255,
		float32((c>>8)&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}
