package domain

// Choice pairs a stored enumeration value with its display label.
type Choice struct {
	Value string
	Label string
}

// Size is the physical size class shared by pets and breeds.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
)

// Gender of a pet or a parent.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Status represents the sale lifecycle of a pet in the catalog.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// Lifestyle tags describe the home a pet is suited to.
type Lifestyle string

const (
	LifestyleApartmentFriendly Lifestyle = "apartment_friendly"
	LifestyleFamilyFriendly    Lifestyle = "family_friendly"
	LifestyleGoodWithKids      Lifestyle = "good_with_kids"
	LifestyleGoodWithOtherPets Lifestyle = "good_with_other_pets"
	LifestyleNeedsYard         Lifestyle = "needs_yard"
	LifestyleGoodForAllergies  Lifestyle = "good_for_allergies"
	LifestyleExperiencedOwner  Lifestyle = "experienced_owner"
)

// Characteristic tags describe temperament.
type Characteristic string

const (
	CharacteristicFriendly    Characteristic = "friendly"
	CharacteristicActive      Characteristic = "active"
	CharacteristicCalm        Characteristic = "calm"
	CharacteristicProtective  Characteristic = "protective"
	CharacteristicIntelligent Characteristic = "intelligent"
	CharacteristicEasyToTrain Characteristic = "easy_to_train"
	CharacteristicIndependent Characteristic = "independent"
	CharacteristicVocal       Characteristic = "vocal"
	CharacteristicShy         Characteristic = "shy"
)

var (
	sizeChoices = []Choice{
		{Value: string(SizeSmall), Label: "Small"},
		{Value: string(SizeMedium), Label: "Medium"},
		{Value: string(SizeLarge), Label: "Large"},
		{Value: string(SizeXLarge), Label: "Extra Large"},
	}
	genderChoices = []Choice{
		{Value: string(GenderMale), Label: "Male"},
		{Value: string(GenderFemale), Label: "Female"},
		{Value: string(GenderUnknown), Label: "Unknown"},
	}
	statusChoices = []Choice{
		{Value: string(StatusAvailable), Label: "Available"},
		{Value: string(StatusReserved), Label: "Reserved"},
		{Value: string(StatusSold), Label: "Sold"},
	}
	lifestyleChoices = []Choice{
		{Value: string(LifestyleApartmentFriendly), Label: "Apartment Friendly"},
		{Value: string(LifestyleFamilyFriendly), Label: "Family Friendly"},
		{Value: string(LifestyleGoodWithKids), Label: "Good with Kids"},
		{Value: string(LifestyleGoodWithOtherPets), Label: "Good with Other Pets"},
		{Value: string(LifestyleNeedsYard), Label: "Needs Yard"},
		{Value: string(LifestyleGoodForAllergies), Label: "Good for Allergies"},
		{Value: string(LifestyleExperiencedOwner), Label: "Experienced Owner"},
	}
	characteristicChoices = []Choice{
		{Value: string(CharacteristicFriendly), Label: "Friendly"},
		{Value: string(CharacteristicActive), Label: "Active"},
		{Value: string(CharacteristicCalm), Label: "Calm"},
		{Value: string(CharacteristicProtective), Label: "Protective"},
		{Value: string(CharacteristicIntelligent), Label: "Intelligent"},
		{Value: string(CharacteristicEasyToTrain), Label: "Easy to Train"},
		{Value: string(CharacteristicIndependent), Label: "Independent"},
		{Value: string(CharacteristicVocal), Label: "Vocal"},
		{Value: string(CharacteristicShy), Label: "Shy"},
	}
)

// SizeChoices lists sizes in declaration order.
func SizeChoices() []Choice { return append([]Choice(nil), sizeChoices...) }

// GenderChoices lists genders in declaration order.
func GenderChoices() []Choice { return append([]Choice(nil), genderChoices...) }

// StatusChoices lists statuses in declaration order.
func StatusChoices() []Choice { return append([]Choice(nil), statusChoices...) }

// LifestyleChoices lists lifestyle tags in declaration order.
func LifestyleChoices() []Choice { return append([]Choice(nil), lifestyleChoices...) }

// CharacteristicChoices lists characteristic tags in declaration order.
func CharacteristicChoices() []Choice { return append([]Choice(nil), characteristicChoices...) }

func (s Size) Valid() bool           { return hasChoice(sizeChoices, string(s)) }
func (g Gender) Valid() bool         { return hasChoice(genderChoices, string(g)) }
func (s Status) Valid() bool         { return hasChoice(statusChoices, string(s)) }
func (l Lifestyle) Valid() bool      { return hasChoice(lifestyleChoices, string(l)) }
func (c Characteristic) Valid() bool { return hasChoice(characteristicChoices, string(c)) }

func hasChoice(choices []Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
