package domain

import (
	"fmt"
	"strings"
)

// CurrencyItemPrefix marks catalog items that pay out stars instead of
// becoming inventory entries (e.g. "stars_100").
const CurrencyItemPrefix = "stars_"

// Rarity is the ordered rarity tier of a catalog item
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityNFT       Rarity = "NFT"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
	RarityNFT:       5,
}

// Rarities lists every tier from lowest to highest
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityNFT}
}

// ParseRarity resolves a rarity name case-insensitively
func ParseRarity(s string) (Rarity, error) {
	for _, r := range Rarities() {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
}

// Valid reports whether r is a known tier
func (r Rarity) Valid() bool {
	_, ok := rarityRank[r]
	return ok
}

// Rank returns the position of r in the tier order, -1 if unknown
func (r Rarity) Rank() int {
	if rank, ok := rarityRank[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r is the same tier as min or higher
func (r Rarity) AtLeast(min Rarity) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// Item is an immutable catalog entry
type Item struct {
	ID            string `json:"item_id" db:"item_id"`
	Name          string `json:"item_name" db:"item_name"`
	Rarity        Rarity `json:"rarity" db:"rarity"`
	StarValue     int64  `json:"star_value" db:"star_value"`
	IconURL       string `json:"icon_url,omitempty" db:"icon_url"`
	ImageURL      string `json:"image_url,omitempty" db:"image_url"`
	BackgroundURL string `json:"background_url,omitempty" db:"background_url"`
	Model3DURL    string `json:"model_3d_url,omitempty" db:"model_3d_url"`
	Description   string `json:"description,omitempty" db:"description"`
}

// IsCurrency reports whether winning this item credits stars directly
func (i Item) IsCurrency() bool {
	return strings.HasPrefix(i.ID, CurrencyItemPrefix)
}
