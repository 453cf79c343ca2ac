package db

import "strings"

type Category string

const (
	Herbal    Category = "Herbal"
	NonHerbal Category = "Non-Herbal"
)

type PlantInfo struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

var plantCatalog = map[string]PlantInfo{
	"saga": {
		Category:    Herbal,
		Description: "Saga (Abrus precatorius) is used in traditional medicine for coughs, fever and inflammation. Its seeds are also used in herbal remedies.",
	},
	"kelor": {
		Category:    Herbal,
		Description: "Moringa (Moringa oleifera) leaves are rich in vitamins A and C and minerals, known for immune support and high antioxidant content.",
	},
	"beras": {
		Category:    NonHerbal,
		Description: "Rice (Oryza sativa) is a staple carbohydrate source. Not an herbal plant, although its leaves contain beneficial silica.",
	},
	"tomat": {
		Category:    NonHerbal,
		Description: "Tomato (Solanum lycopersicum) is a food crop rich in lycopene. Its leaves contain solanine and are not eaten.",
	},
	"kentang": {
		Category:    NonHerbal,
		Description: "Potato (Solanum tuberosum) is a carbohydrate source. Its leaves contain toxic glycoalkaloids and must not be eaten.",
	},
}

var unknownPlant = PlantInfo{
	Category:    NonHerbal,
	Description: "No plant information available.",
}

// LookupPlant returns catalog info for a predicted label, case-insensitively.
func LookupPlant(label string) PlantInfo {
	if info, ok := plantCatalog[strings.ToLower(strings.TrimSpace(label))]; ok {
		return info
	}
	return unknownPlant
}
