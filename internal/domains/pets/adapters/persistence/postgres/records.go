package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

type petRecord struct {
	ID                    uuid.UUID      `gorm:"primaryKey;column:id;type:uuid"`
	Name                  string         `gorm:"column:name;size:100;not null"`
	Description           string         `gorm:"column:description;type:text"`
	Color                 string         `gorm:"column:color;size:50"`
	Weight                *float64       `gorm:"column:weight;type:numeric(5,2)"`
	Size                  string         `gorm:"column:size;size:10"`
	Gender                string         `gorm:"column:gender;size:10"`
	AgeMonths             *int           `gorm:"column:age_months"`
	ChampionsBloodline    bool           `gorm:"column:champions_bloodline"`
	Price                 *float64       `gorm:"column:price;type:numeric(10,2)"`
	Featured              bool           `gorm:"column:featured"`
	Status                string         `gorm:"column:status;size:10"`
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
	Location              string         `gorm:"column:location;size:100"`
	Lifestyle             pq.StringArray `gorm:"column:lifestyle;type:text[]"`
	Characteristics       pq.StringArray `gorm:"column:characteristics;type:text[]"`
	BreedID               *uuid.UUID     `gorm:"column:breed_id;type:uuid"`
	FatherID              *uuid.UUID     `gorm:"column:father_id;type:uuid"`
	MotherID              *uuid.UUID     `gorm:"column:mother_id;type:uuid"`
	CreatedAt             time.Time      `gorm:"column:created_at"`
	UpdatedAt             time.Time      `gorm:"column:updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"column:deleted_at"`

	Breed  *breedRecord  `gorm:"foreignKey:BreedID"`
	Father *parentRecord `gorm:"foreignKey:FatherID"`
	Mother *parentRecord `gorm:"foreignKey:MotherID"`
	Photos []photoRecord `gorm:"foreignKey:PetID"`
	Videos []videoRecord `gorm:"foreignKey:PetID"`
}

func (petRecord) TableName() string { return "pets" }

// petWritableColumns are the columns a pet update may touch. Media and the
// certificate have dedicated operations.
var petWritableColumns = []string{
	"name", "description", "color", "weight", "size", "gender", "age_months",
	"champions_bloodline", "price", "featured", "status",
	"rabies_vaccinated", "rabies_vaccination_date", "dhpp_vaccinated", "dhpp_vaccination_date",
	"dewormed", "deworming_date", "kci_registered", "registration_number",
	"microchipped", "microchip_number", "health_notes", "location",
	"lifestyle", "characteristics", "breed_id", "father_id", "mother_id", "updated_at",
}

// petListColumns is the projection read by the list endpoint.
var petListColumns = []string{
	"pets.id", "pets.name", "pets.gender", "pets.age_months", "pets.lifestyle",
	"pets.characteristics", "pets.champions_bloodline", "pets.breed_id",
	"pets.created_at", "pets.updated_at",
}

func newPetRecord(p *domain.Pet) petRecord {
	return petRecord{
		ID:                    p.ID,
		Name:                  p.Name,
		Description:           p.Description,
		Color:                 p.Color,
		Weight:                p.WeightKg,
		Size:                  string(p.Size),
		Gender:                string(p.Gender),
		AgeMonths:             p.AgeMonths,
		ChampionsBloodline:    p.ChampionsBloodline,
		Price:                 p.Price,
		Featured:              p.Featured,
		Status:                string(p.Status),
		RabiesVaccinated:      p.RabiesVaccinated,
		RabiesVaccinationDate: p.RabiesVaccinationDate,
		DHPPVaccinated:        p.DHPPVaccinated,
		DHPPVaccinationDate:   p.DHPPVaccinationDate,
		Dewormed:              p.Dewormed,
		DewormingDate:         p.DewormingDate,
		HealthCertificate:     p.HealthCertificate,
		KCIRegistered:         p.KCIRegistered,
		RegistrationNumber:    p.RegistrationNumber,
		Microchipped:          p.Microchipped,
		MicrochipNumber:       p.MicrochipNumber,
		HealthNotes:           p.HealthNotes,
		Location:              p.Location,
		Lifestyle:             tagArray(p.Lifestyle),
		Characteristics:       tagArray(p.Characteristics),
		BreedID:               p.BreedID,
		FatherID:              p.FatherID,
		MotherID:              p.MotherID,
	}
}

func (r *petRecord) toProjection() *pettypes.PetProjection {
	pet := &domain.Pet{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		Color:                 r.Color,
		WeightKg:              r.Weight,
		Size:                  domain.Size(r.Size),
		Gender:                domain.Gender(r.Gender),
		AgeMonths:             r.AgeMonths,
		ChampionsBloodline:    r.ChampionsBloodline,
		Price:                 r.Price,
		Featured:              r.Featured,
		Status:                domain.Status(r.Status),
		RabiesVaccinated:      r.RabiesVaccinated,
		RabiesVaccinationDate: r.RabiesVaccinationDate,
		DHPPVaccinated:        r.DHPPVaccinated,
		DHPPVaccinationDate:   r.DHPPVaccinationDate,
		Dewormed:              r.Dewormed,
		DewormingDate:         r.DewormingDate,
		HealthCertificate:     r.HealthCertificate,
		KCIRegistered:         r.KCIRegistered,
		RegistrationNumber:    r.RegistrationNumber,
		Microchipped:          r.Microchipped,
		MicrochipNumber:       r.MicrochipNumber,
		HealthNotes:           r.HealthNotes,
		Location:              r.Location,
		Lifestyle:             toTags[domain.Lifestyle](r.Lifestyle),
		Characteristics:       toTags[domain.Characteristic](r.Characteristics),
		BreedID:               r.BreedID,
		FatherID:              r.FatherID,
		MotherID:              r.MotherID,
	}
	if r.Breed != nil && r.BreedID != nil {
		breed := r.Breed.toDomain()
		pet.Breed = &breed
	}
	if r.Father != nil && r.FatherID != nil {
		pet.Father = r.Father.toDomain()
	}
	if r.Mother != nil && r.MotherID != nil {
		pet.Mother = r.Mother.toDomain()
	}
	for _, photo := range r.Photos {
		pet.Photos = append(pet.Photos, photo.toDomain())
	}
	for _, video := range r.Videos {
		pet.Videos = append(pet.Videos, video.toDomain())
	}
	return pettypes.NewPetProjection(pet, r.CreatedAt, r.UpdatedAt)
}

type breedRecord struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	Name         string    `gorm:"column:name;size:100"`
	Description  string    `gorm:"column:description;type:text"`
	SizeCategory string    `gorm:"column:size_category;size:10"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

func (r *breedRecord) toDomain() domain.Breed {
	return domain.Breed{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		SizeCategory: domain.Size(r.SizeCategory),
	}
}

type parentRecord struct {
	ID                 uuid.UUID  `gorm:"primaryKey;column:id;type:uuid"`
	Name               string     `gorm:"column:name;size:100"`
	Gender             string     `gorm:"column:gender;size:10"`
	DateOfBirth        *time.Time `gorm:"column:date_of_birth;type:date"`
	RegistrationNumber string     `gorm:"column:registration_number;size:50"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (parentRecord) TableName() string { return "pet_parents" }

func newParentRecord(p *domain.Parent) parentRecord {
	return parentRecord{
		ID:                 p.ID,
		Name:               p.Name,
		Gender:             string(p.Gender),
		DateOfBirth:        p.DateOfBirth,
		RegistrationNumber: p.RegistrationNumber,
	}
}

func (r *parentRecord) toDomain() *domain.Parent {
	return &domain.Parent{
		ID:                 r.ID,
		Name:               r.Name,
		Gender:             domain.Gender(r.Gender),
		DateOfBirth:        r.DateOfBirth,
		RegistrationNumber: r.RegistrationNumber,
	}
}

func (r *parentRecord) toProjection() *pettypes.ParentProjection {
	return pettypes.NewParentProjection(r.toDomain(), r.CreatedAt, r.UpdatedAt)
}

type photoRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null"`
	Image     string    `gorm:"column:image;size:255;not null"`
	Order     int       `gorm:"column:order;type:smallint;not null"`
	IsMain    bool      `gorm:"column:is_main;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (photoRecord) TableName() string { return "pet_photos" }

func newPhotoRecord(p domain.Photo) photoRecord {
	return photoRecord{ID: p.ID, PetID: p.PetID, Image: p.Image, Order: p.Order, IsMain: p.IsMain}
}

func (r *photoRecord) toDomain() domain.Photo {
	return domain.Photo{ID: r.ID, PetID: r.PetID, Image: r.Image, Order: r.Order, IsMain: r.IsMain, CreatedAt: r.CreatedAt}
}

type videoRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null"`
	Video     string    `gorm:"column:video;size:255;not null"`
	Title     string    `gorm:"column:title;size:100"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (videoRecord) TableName() string { return "pet_videos" }

func newVideoRecord(v domain.Video) videoRecord {
	return videoRecord{ID: v.ID, PetID: v.PetID, Video: v.Video, Title: v.Title}
}

func (r *videoRecord) toDomain() domain.Video {
	return domain.Video{ID: r.ID, PetID: r.PetID, Video: r.Video, Title: r.Title, CreatedAt: r.CreatedAt}
}

func tagArray[T ~string](tags []T) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, tag := range tags {
		out = append(out, string(tag))
	}
	return out
}

func toTags[T ~string](values pq.StringArray) []T {
	out := make([]T, 0, len(values))
	for _, value := range values {
		out = append(out, T(value))
	}
	return out
}
