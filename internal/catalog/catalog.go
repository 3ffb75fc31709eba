// Package catalog holds the closed registries of icons, pets, colours, shop
// items and world areas. Every lookup is total: unknown ids resolve to a
// defined default instead of failing.
package catalog

// StampIcon identifies a stamp face
type StampIcon string

const (
	IconPaw    StampIcon = "paw"
	IconStar   StampIcon = "star"
	IconHeart  StampIcon = "heart"
	IconFlower StampIcon = "flower"
	IconSun    StampIcon = "sun"
	IconMoon   StampIcon = "moon"
	IconLeaf   StampIcon = "leaf"
	IconFire   StampIcon = "fire"

	DefaultIcon StampIcon = IconPaw
)

type IconInfo struct {
	ID    StampIcon
	Label string
	Glyph string
	Price int
}

var icons = []IconInfo{
	{ID: IconPaw, Label: "Paw", Glyph: "🐾", Price: 0},
	{ID: IconStar, Label: "Star", Glyph: "⭐", Price: 0},
	{ID: IconHeart, Label: "Heart", Glyph: "❤️", Price: 0},
	{ID: IconFlower, Label: "Flower", Glyph: "🌸", Price: 50},
	{ID: IconSun, Label: "Sun", Glyph: "☀️", Price: 50},
	{ID: IconMoon, Label: "Moon", Glyph: "🌙", Price: 80},
	{ID: IconLeaf, Label: "Leaf", Glyph: "🍃", Price: 80},
	{ID: IconFire, Label: "Fire", Glyph: "🔥", Price: 120},
}

// LookupIcon returns the icon for id, or the paw for anything unknown.
func LookupIcon(id string) IconInfo {
	for _, info := range icons {
		if string(info.ID) == id {
			return info
		}
	}
	return icons[0]
}

// IsIcon reports whether id names a catalog icon.
func IsIcon(id string) bool {
	return LookupIcon(id).ID == StampIcon(id)
}

// Icons returns every icon in display order.
func Icons() []IconInfo {
	return append([]IconInfo{}, icons...)
}

// FreeIcons returns the ids every new world starts with.
func FreeIcons() []string {
	var ids []string
	for _, info := range icons {
		if info.Price == 0 {
			ids = append(ids, string(info.ID))
		}
	}
	return ids
}

type PetInfo struct {
	ID    string
	Name  string
	Price int
}

const DefaultPet = "cat"

var pets = []PetInfo{
	{ID: "cat", Name: "Cat", Price: 0},
	{ID: "dog", Name: "Dog", Price: 100},
	{ID: "rabbit", Name: "Rabbit", Price: 150},
	{ID: "penguin", Name: "Penguin", Price: 200},
	{ID: "dragon", Name: "Dragon", Price: 500},
}

// LookupPet returns the pet for id, or the cat for anything unknown.
func LookupPet(id string) PetInfo {
	for _, p := range pets {
		if p.ID == id {
			return p
		}
	}
	return pets[0]
}

func IsPet(id string) bool { return LookupPet(id).ID == id }

func Pets() []PetInfo { return append([]PetInfo{}, pets...) }

type ColorInfo struct {
	ID  string
	Hex string
}

const DefaultColor = "orange"

var colors = []ColorInfo{
	{ID: "orange", Hex: "#FF9F43"},
	{ID: "pink", Hex: "#FF6B9D"},
	{ID: "blue", Hex: "#54A0FF"},
	{ID: "green", Hex: "#1DD1A1"},
	{ID: "purple", Hex: "#A55EEA"},
	{ID: "yellow", Hex: "#FECA57"},
}

// LookupColor returns the colour for id, or orange for anything unknown.
func LookupColor(id string) ColorInfo {
	for _, c := range colors {
		if c.ID == id {
			return c
		}
	}
	return colors[0]
}

func Colors() []ColorInfo { return append([]ColorInfo{}, colors...) }
