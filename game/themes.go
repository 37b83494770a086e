package game

// Built-in image sets. Each theme carries 18 images so it can cover
// the largest (6x6) board without padding.
var themes = map[string][]string{
	"fruits": {
		"🍎", "🍌", "🍇", "🍉", "🍓", "🍒", "🍑", "🍍", "🥝",
		"🍋", "🍐", "🥭", "🍊", "🫐", "🍈", "🥥", "🍅", "🥑",
	},
	"animals": {
		"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨",
		"🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐧", "🐢", "🦉",
	},
	"ocean": {
		"🐠", "🐟", "🐡", "🦈", "🐙", "🦑", "🦀", "🦞", "🐚",
		"🐬", "🐳", "🐋", "🦭", "🪸", "🌊", "⚓", "🐊", "🦐",
	},
	"space": {
		"🚀", "🛸", "🪐", "🌍", "🌙", "☄️", "⭐", "🌟", "🌌",
		"👽", "🛰️", "🔭", "🌞", "🌠", "🌑", "🧑‍🚀", "🌕", "💫",
	},
}

const defaultTheme = "fruits"

// ThemeImages returns a copy of the named theme's image list, falling
// back to the default set for unknown names (including "custom", whose
// real images come from the user's profile).
func ThemeImages(name string) []string {
	images, ok := themes[name]
	if !ok {
		images = themes[defaultTheme]
	}
	return append([]string(nil), images...)
}

// DefaultImages returns a copy of the default image set.
func DefaultImages() []string {
	return append([]string(nil), themes[defaultTheme]...)
}

// PadImages extends images up to pairCount entries with defaults:
// caller images first, defaults appended, deterministic order.
func PadImages(images []string, pairCount int) []string {
	out := append([]string(nil), images...)
	if len(out) < pairCount {
		out = append(out, themes[defaultTheme][:pairCount-len(out)]...)
	}
	return out
}

// PairCountFor maps a difficulty preset to its pair count.
// Unknown values fall back to the 4x4 board.
func PairCountFor(difficulty string) int {
	switch difficulty {
	case "6x6":
		return 18
	case "4x6":
		return 12
	default:
		return 8
	}
}
