package panels

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"assessment-cam/internal/asset"
)

// sides lists the selectable premises sides in display order.
var sides = []asset.Side{asset.SideFront, asset.SideBack}

func sideOptions() []string {
	out := make([]string, len(sides))
	for i, s := range sides {
		out[i] = sideLabel(s)
	}
	return out
}

func sideLabel(s asset.Side) string {
	return s.String() + " (" + s.Code() + ")"
}

func sideFromLabel(label string) (asset.Side, bool) {
	for _, s := range sides {
		if sideLabel(s) == label {
			return s, true
		}
	}
	return asset.SideUnknown, false
}

// stickerLabel turns a marker code such as "pest_activity" into
// "Pest activity".
func stickerLabel(id asset.ID) string {
	s := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(id.Code))
	if s == "" {
		return id.String()
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
