package postgres

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
)

// searchBreedAlias joins breeds a second time so search does not collide with Joins("Breed").
const searchBreedAlias = "search_breed"

var petSearchColumns = []string{
	"pets.name", searchBreedAlias + ".name", "pets.color", "pets.location",
	"pets.size", "pets.status", "pets.description", "pets.health_notes",
}

var petOrderColumns = map[string]string{
	pettypes.OrderCreatedAt: "created_at",
	pettypes.OrderUpdatedAt: "updated_at",
	pettypes.OrderName:      "name",
	pettypes.OrderPrice:     "price",
	pettypes.OrderAgeMonths: "age_months",
	pettypes.OrderFeatured:  "featured",
}

var breedOrderColumns = map[string]string{
	pettypes.OrderName:         "name",
	pettypes.OrderSizeCategory: "size_category",
	pettypes.OrderCreatedAt:    "created_at",
}

// applyPetFilter translates the typed filter into predicates on the pets table.
func applyPetFilter(db *gorm.DB, f pettypes.PetFilter) *gorm.DB {
	if f.BreedID != nil {
		db = db.Where("pets.breed_id = ?", *f.BreedID)
	}
	if f.Status != nil {
		db = db.Where("pets.status = ?", string(*f.Status))
	}
	if f.Gender != nil {
		db = db.Where("pets.gender = ?", string(*f.Gender))
	}
	if f.Size != nil {
		db = db.Where("pets.size = ?", string(*f.Size))
	}
	for _, flag := range []struct {
		column string
		value  *bool
	}{
		{"pets.featured", f.Featured},
		{"pets.champions_bloodline", f.ChampionsBloodline},
		{"pets.rabies_vaccinated", f.RabiesVaccinated},
		{"pets.dhpp_vaccinated", f.DHPPVaccinated},
		{"pets.dewormed", f.Dewormed},
		{"pets.kci_registered", f.KCIRegistered},
		{"pets.microchipped", f.Microchipped},
	} {
		if flag.value != nil {
			db = db.Where(flag.column+" = ?", *flag.value)
		}
	}
	if f.FullyVaccinated != nil {
		if *f.FullyVaccinated {
			db = db.Where("pets.rabies_vaccinated AND pets.dhpp_vaccinated")
		} else {
			db = db.Where("(NOT pets.rabies_vaccinated OR NOT pets.dhpp_vaccinated)")
		}
	}
	db = applyRange(db, "pets.price", f.Price, f.PriceMin, f.PriceMax)
	db = applyRange(db, "pets.age_months", f.AgeMonths, f.AgeMin, f.AgeMax)
	if f.Location != "" {
		db = db.Where("pets.location ILIKE ?", containsPattern(f.Location))
	}
	if len(f.Lifestyle) > 0 {
		db = db.Where("pets.lifestyle && ?", pq.Array(f.Lifestyle))
	}
	if len(f.Characteristics) > 0 {
		db = db.Where("pets.characteristics && ?", pq.Array(f.Characteristics))
	}
	if len(f.SearchTerms) > 0 {
		db = db.Joins("LEFT JOIN breeds AS " + searchBreedAlias + " ON " + searchBreedAlias + ".id = pets.breed_id")
		db = applySearch(db, f.SearchTerms, petSearchColumns)
	}
	return db
}

func applyRange[T int | float64](db *gorm.DB, column string, exact, min, max *T) *gorm.DB {
	if exact != nil {
		db = db.Where(column+" = ?", *exact)
	}
	if min != nil {
		db = db.Where(column+" >= ?", *min)
	}
	if max != nil {
		db = db.Where(column+" <= ?", *max)
	}
	return db
}

// applySearch requires each term to match at least one column.
func applySearch(db *gorm.DB, terms []string, columns []string) *gorm.DB {
	for _, term := range terms {
		pattern := containsPattern(term)
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, column := range columns {
			parts[i] = column + " ILIKE ?"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return db
}

func applyOrdering(db *gorm.DB, table string, ordering []pettypes.OrderField, columns map[string]string) *gorm.DB {
	for _, o := range ordering {
		column, ok := columns[o.Field]
		if !ok {
			continue
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: column}, Desc: o.Desc})
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
