package catalog

type Item struct {
	ID         string
	Name       string
	Price      int
	Decoration bool // may be placed in a world area
}

var items = []Item{
	{ID: "apple", Name: "Apple", Price: 10},
	{ID: "ball", Name: "Ball", Price: 20, Decoration: true},
	{ID: "hat", Name: "Party Hat", Price: 30},
	{ID: "scarf", Name: "Scarf", Price: 40},
	{ID: "lamp", Name: "Lamp", Price: 60, Decoration: true},
	{ID: "bed", Name: "Cozy Bed", Price: 80, Decoration: true},
}

// LookupItem returns the shop item for id.
func LookupItem(id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func Items() []Item { return append([]Item{}, items...) }

type Area struct {
	ID         string
	Name       string
	Price      int
	Background string
}

const StarterArea = "meadow"

var areas = []Area{
	{ID: StarterArea, Name: "Meadow", Price: 0, Background: "grass"},
	{ID: "forest", Name: "Forest", Price: 100, Background: "pines"},
	{ID: "beach", Name: "Beach", Price: 200, Background: "sand"},
	{ID: "mountain", Name: "Mountain", Price: 300, Background: "snow"},
	{ID: "space", Name: "Space", Price: 1000, Background: "stars"},
}

// LookupArea returns the world area for id.
func LookupArea(id string) (Area, bool) {
	for _, a := range areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}

func Areas() []Area { return append([]Area{}, areas...) }
