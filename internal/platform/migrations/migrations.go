package migrations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the catalog schema: tables via AutoMigrate, then the foreign
// keys and indexes GORM tags cannot express. Every step is idempotent.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&breedRecord{},
		&parentRecord{},
		&petRecord{},
		&photoRecord{},
		&videoRecord{},
		&idempotencyRecord{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply %q: %w", stmt, err)
		}
	}
	return nil
}

var statements = []string{
	foreignKey("fk_pets_breed", "pets", "breed_id", "breeds", "SET NULL"),
	foreignKey("fk_pets_father", "pets", "father_id", "pet_parents", "SET NULL"),
	foreignKey("fk_pets_mother", "pets", "mother_id", "pet_parents", "SET NULL"),
	foreignKey("fk_pet_photos_pet", "pet_photos", "pet_id", "pets", "CASCADE"),
	foreignKey("fk_pet_videos_pet", "pet_videos", "pet_id", "pets", "CASCADE"),
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_pet_photos_main ON pet_photos (pet_id) WHERE is_main`,
	`CREATE INDEX IF NOT EXISTS idx_pets_lifestyle ON pets USING GIN (lifestyle)`,
	`CREATE INDEX IF NOT EXISTS idx_pets_characteristics ON pets USING GIN (characteristics)`,
	`CREATE INDEX IF NOT EXISTS idx_pets_listing ON pets (featured DESC, created_at DESC) WHERE deleted_at IS NULL`,
}

func foreignKey(name, table, column, reference, onDelete string) string {
	return fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE %[2]s ADD CONSTRAINT %[1]s FOREIGN KEY (%[3]s) REFERENCES %[4]s (id) ON DELETE %[5]s;
	END IF;
END $$`, name, table, column, reference, onDelete)
}

// Pet schema mirrors the pets Postgres adapter.
type petRecord struct {
	ID                    uuid.UUID      `gorm:"primaryKey;column:id;type:uuid"`
	Name                  string         `gorm:"column:name;size:100;not null"`
	Description           string         `gorm:"column:description;type:text"`
	Color                 string         `gorm:"column:color;size:50"`
	Weight                *float64       `gorm:"column:weight;type:numeric(5,2)"`
	Size                  string         `gorm:"column:size;size:10;index"`
	Gender                string         `gorm:"column:gender;size:10;index"`
	AgeMonths             *int           `gorm:"column:age_months;index"`
	ChampionsBloodline    bool           `gorm:"column:champions_bloodline;index"`
	Price                 *float64       `gorm:"column:price;type:numeric(10,2);index"`
	Featured              bool           `gorm:"column:featured"`
	Status                string         `gorm:"column:status;size:10;index"`
	RabiesVaccinated      bool           `gorm:"column:rabies_vaccinated"`
	RabiesVaccinationDate *time.Time     `gorm:"column:rabies_vaccination_date;type:date"`
	DHPPVaccinated        bool           `gorm:"column:dhpp_vaccinated"`
	DHPPVaccinationDate   *time.Time     `gorm:"column:dhpp_vaccination_date;type:date"`
	Dewormed              bool           `gorm:"column:dewormed"`
	DewormingDate         *time.Time     `gorm:"column:deworming_date;type:date"`
	HealthCertificate     string         `gorm:"column:health_certificate;size:255"`
	KCIRegistered         bool           `gorm:"column:kci_registered"`
	RegistrationNumber    string         `gorm:"column:registration_number;size:50"`
	Microchipped          bool           `gorm:"column:microchipped"`
	MicrochipNumber       string         `gorm:"column:microchip_number;size:50"`
	HealthNotes           string         `gorm:"column:health_notes;type:text"`
	Location              string         `gorm:"column:location;size:100;index"`
	Lifestyle             pq.StringArray `gorm:"column:lifestyle;type:text[];not null;default:'{}'"`
	Characteristics       pq.StringArray `gorm:"column:characteristics;type:text[];not null;default:'{}'"`
	BreedID               *uuid.UUID     `gorm:"column:breed_id;type:uuid;index"`
	FatherID              *uuid.UUID     `gorm:"column:father_id;type:uuid;index"`
	MotherID              *uuid.UUID     `gorm:"column:mother_id;type:uuid;index"`
	CreatedAt             time.Time      `gorm:"column:created_at;index"`
	UpdatedAt             time.Time      `gorm:"column:updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (petRecord) TableName() string { return "pets" }

type breedRecord struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	Name         string    `gorm:"column:name;size:100;uniqueIndex"`
	Description  string    `gorm:"column:description;type:text"`
	SizeCategory string    `gorm:"column:size_category;size:10"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

type parentRecord struct {
	ID                 uuid.UUID  `gorm:"primaryKey;column:id;type:uuid"`
	Name               string     `gorm:"column:name;size:100;not null;index"`
	Gender             string     `gorm:"column:gender;size:10"`
	DateOfBirth        *time.Time `gorm:"column:date_of_birth;type:date"`
	RegistrationNumber string     `gorm:"column:registration_number;size:50"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (parentRecord) TableName() string { return "pet_parents" }

type photoRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null;index"`
	Image     string    `gorm:"column:image;size:255;not null"`
	Order     int       `gorm:"column:order;type:smallint;not null"`
	IsMain    bool      `gorm:"column:is_main;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (photoRecord) TableName() string { return "pet_photos" }

type videoRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null;index"`
	Video     string    `gorm:"column:video;size:255;not null"`
	Title     string    `gorm:"column:title;size:100"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (videoRecord) TableName() string { return "pet_videos" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	PetID       uuid.UUID `gorm:"column:pet_id;type:uuid"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "pet_idempotency_keys" }
