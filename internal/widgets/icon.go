package widgets

// Icon selects the glyph shown on a tile.
type Icon int

const (
	IconTemperature Icon = iota
	IconHumidity
	IconAir
	IconAC
	IconPurifier
	IconDehumidifier
)

// Glyph returns the single-cell symbol for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconTemperature:
		return "♨"
	case IconHumidity:
		return "☂"
	case IconAir:
		return "☁"
	case IconAC:
		return "❄"
	case IconPurifier:
		return "✱"
	case IconDehumidifier:
		return "≋"
	default:
		return "•"
	}
}
