package migrations

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Breed is a seed row for the breeds table.
type Breed struct {
	Name         string
	SizeCategory string
	Description  string
}

// DefaultBreeds is the starter breed list loaded by the migrate command.
var DefaultBreeds = []Breed{
	{Name: "Beagle", SizeCategory: "medium", Description: "Merry scent hound, great with families."},
	{Name: "Labrador Retriever", SizeCategory: "large", Description: "Outgoing, even-tempered and eager to please."},
	{Name: "Golden Retriever", SizeCategory: "large", Description: "Friendly, intelligent and devoted."},
	{Name: "German Shepherd", SizeCategory: "large", Description: "Confident, courageous working dog."},
	{Name: "Pug", SizeCategory: "small", Description: "Charming companion that suits apartments."},
	{Name: "Shih Tzu", SizeCategory: "small", Description: "Affectionate lap dog with a long coat."},
	{Name: "Indian Pariah", SizeCategory: "medium", Description: "Hardy, alert native breed."},
	{Name: "Great Dane", SizeCategory: "xlarge", Description: "Gentle giant, patient with children."},
}

// SeedBreeds inserts the given breeds, skipping names that already exist.
func SeedBreeds(db *gorm.DB, breeds []Breed) (int64, error) {
	if db == nil || len(breeds) == 0 {
		return 0, nil
	}
	rows := make([]breedRecord, 0, len(breeds))
	for _, b := range breeds {
		rows = append(rows, breedRecord{
			ID:           uuid.New(),
			Name:         b.Name,
			SizeCategory: b.SizeCategory,
			Description:  b.Description,
		})
	}
	result := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&rows)
	return result.RowsAffected, result.Error
}
