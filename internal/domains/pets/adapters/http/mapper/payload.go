package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

const (
	msgIncorrectPK   = "Incorrect type. Expected pk value, received %s."
	msgInvalidNumber = "A valid number is required."
	msgInvalidInt    = "A valid integer is required."
	msgInvalidBool   = "Must be a valid boolean."
	msgInvalidDate   = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgInvalidString = "Not a valid string."
	msgInvalidList   = "Expected a list of items."
	msgMalformedBody = "JSON parse error - %s"
	msgNotObject     = "Invalid data. Expected a dictionary, but got %s."
	nonFieldErrors   = "non_field_errors"
)

// Nullable records whether a JSON member was present and whether it was null.
type Nullable[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON is invoked for present members only, null included.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// Decimal accepts both JSON numbers and numeric strings.
type Decimal float64

// UnmarshalJSON parses "12.50" and 12.5 alike.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errDecimal
	}
	*d = Decimal(v)
	return nil
}

var errDecimal = errors.New("invalid decimal")

// PetPayload is the writable pet body accepted by create and update.
type PetPayload struct {
	Name               *string           `json:"name" validate:"omitempty,max=100"`
	Description        *string           `json:"description"`
	Color              *string           `json:"color" validate:"omitempty,max=50"`
	Weight             Nullable[Decimal] `json:"weight"`
	Size               *string           `json:"size" validate:"omitempty,oneof=small medium large xlarge"`
	Gender             *string           `json:"gender" validate:"omitempty,oneof=male female unknown"`
	AgeMonths          Nullable[int]     `json:"age_months"`
	ChampionsBloodline *bool             `json:"champions_bloodline"`

	Price    Nullable[Decimal] `json:"price"`
	Featured *bool             `json:"featured"`
	Status   *string           `json:"status" validate:"omitempty,oneof=available reserved sold"`

	RabiesVaccinated      *bool                `json:"rabies_vaccinated"`
	RabiesVaccinationDate Nullable[types.Date] `json:"rabies_vaccination_date"`
	DHPPVaccinated        *bool                `json:"dhpp_vaccinated"`
	DHPPVaccinationDate   Nullable[types.Date] `json:"dhpp_vaccination_date"`
	Dewormed              *bool                `json:"dewormed"`
	DewormingDate         Nullable[types.Date] `json:"deworming_date"`

	KCIRegistered      *bool   `json:"kci_registered"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=50"`
	Microchipped       *bool   `json:"microchipped"`
	MicrochipNumber    *string `json:"microchip_number" validate:"omitempty,max=50"`
	HealthNotes        *string `json:"health_notes"`

	Location        *string   `json:"location" validate:"omitempty,max=100"`
	Lifestyle       *[]string `json:"lifestyle"`
	Characteristics *[]string `json:"characteristics"`

	BreedID  Nullable[json.RawMessage] `json:"breed_id"`
	FatherID Nullable[json.RawMessage] `json:"father_id"`
	MotherID Nullable[json.RawMessage] `json:"mother_id"`
}

// ParentPayload is the writable parent body.
type ParentPayload struct {
	Name               *string              `json:"name" validate:"omitempty,max=100"`
	Gender             *string              `json:"gender" validate:"omitempty,oneof=male female unknown"`
	DateOfBirth        Nullable[types.Date] `json:"date_of_birth"`
	RegistrationNumber *string              `json:"registration_number" validate:"omitempty,max=50"`
}

// PhotoPayload changes gallery position or the main flag.
type PhotoPayload struct {
	Order  *int  `json:"order" validate:"omitempty,gte=0"`
	IsMain *bool `json:"is_main"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// DecodePet reads and checks a pet body.
func DecodePet(body io.Reader) (*PetPayload, error) {
	var payload PetPayload
	if err := decode(body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DecodeParent reads and checks a parent body.
func DecodeParent(body io.Reader) (*ParentPayload, error) {
	var payload ParentPayload
	if err := decode(body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DecodePhoto reads and checks a photo update body.
func DecodePhoto(body io.Reader) (*PhotoPayload, error) {
	var payload PhotoPayload
	if err := decode(body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decode(body io.Reader, target any) error {
	var members map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&members); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.NewValidationError(nonFieldErrors, fmt.Sprintf(msgNotObject, typeErr.Value))
		}
		return domain.NewValidationError(nonFieldErrors, fmt.Sprintf(msgMalformedBody, err.Error()))
	}
	// Members are decoded one at a time so a type error can be pinned to its field.
	violations := &domain.ValidationError{}
	for name, raw := range members {
		single, err := json.Marshal(map[string]json.RawMessage{name: raw})
		if err != nil {
			return err
		}
		if err := json.Unmarshal(single, target); err != nil {
			violations.Add(name, typeMessage(target, name))
		}
	}
	if !violations.Empty() {
		return violations
	}
	return structViolations(payloadValidator().Struct(target))
}

func typeMessage(target any, field string) string {
	t := reflect.TypeOf(target).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != field {
			continue
		}
		return messageForType(f.Type)
	}
	return msgInvalidString
}

func messageForType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == reflect.TypeOf(Nullable[Decimal]{}):
		return msgInvalidNumber
	case t == reflect.TypeOf(Nullable[int]{}):
		return msgInvalidInt
	case t == reflect.TypeOf(Nullable[types.Date]{}):
		return msgInvalidDate
	}
	switch t.Kind() {
	case reflect.Bool:
		return msgInvalidBool
	case reflect.Int, reflect.Int64:
		return msgInvalidInt
	case reflect.Slice:
		return msgInvalidList
	default:
		return msgInvalidString
	}
}

func structViolations(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	v := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), fieldMessage(fe))
	}
	return v.Err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		limit, _ := strconv.Atoi(fe.Param())
		return domain.MaxLengthMessage(limit)
	case "oneof":
		return domain.InvalidChoiceMessage(fmt.Sprint(fe.Value()))
	case "gte":
		return domain.MsgNegative
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// ToCreateInput converts a create body into the application input.
func (p *PetPayload) ToCreateInput(idempotencyKey string) (pettypes.CreatePetInput, error) {
	mutation, err := p.toMutation()
	if err != nil {
		return pettypes.CreatePetInput{}, err
	}
	return pettypes.CreatePetInput{PetMutationInput: mutation, IdempotencyKey: idempotencyKey}, nil
}

// ToUpdateInput converts an update body; partial selects PATCH semantics.
func (p *PetPayload) ToUpdateInput(id uuid.UUID, partial bool) (pettypes.UpdatePetInput, error) {
	mutation, err := p.toMutation()
	if err != nil {
		return pettypes.UpdatePetInput{}, err
	}
	return pettypes.UpdatePetInput{ID: id, PetMutationInput: mutation, Partial: partial}, nil
}

func (p *PetPayload) toMutation() (pettypes.PetMutationInput, error) {
	violations := &domain.ValidationError{}
	in := pettypes.PetMutationInput{
		Name:               p.Name,
		Description:        p.Description,
		Color:              p.Color,
		WeightKg:           decimalPatch(p.Weight),
		Size:               enumPtr[domain.Size](p.Size),
		Gender:             enumPtr[domain.Gender](p.Gender),
		AgeMonths:          patch(p.AgeMonths),
		ChampionsBloodline: p.ChampionsBloodline,

		Price:    decimalPatch(p.Price),
		Featured: p.Featured,
		Status:   enumPtr[domain.Status](p.Status),

		RabiesVaccinated:      p.RabiesVaccinated,
		RabiesVaccinationDate: datePatch(p.RabiesVaccinationDate),
		DHPPVaccinated:        p.DHPPVaccinated,
		DHPPVaccinationDate:   datePatch(p.DHPPVaccinationDate),
		Dewormed:              p.Dewormed,
		DewormingDate:         datePatch(p.DewormingDate),

		KCIRegistered:      p.KCIRegistered,
		RegistrationNumber: p.RegistrationNumber,
		Microchipped:       p.Microchipped,
		MicrochipNumber:    p.MicrochipNumber,
		HealthNotes:        p.HealthNotes,

		Location:        p.Location,
		Lifestyle:       tagSlice[domain.Lifestyle](p.Lifestyle),
		Characteristics: tagSlice[domain.Characteristic](p.Characteristics),

		BreedID:  referencePatch(violations, "breed_id", p.BreedID),
		FatherID: referencePatch(violations, "father_id", p.FatherID),
		MotherID: referencePatch(violations, "mother_id", p.MotherID),
	}
	if p.AgeMonths.Present && !p.AgeMonths.Null && p.AgeMonths.Value < 0 {
		violations.Add("age_months", domain.MsgNegative)
	}
	return in, violations.Err()
}

// ToCreateInput converts a parent body.
func (p *ParentPayload) ToCreateInput() pettypes.ParentMutationInput {
	return pettypes.ParentMutationInput{
		Name:               p.Name,
		Gender:             enumPtr[domain.Gender](p.Gender),
		DateOfBirth:        datePatch(p.DateOfBirth),
		RegistrationNumber: p.RegistrationNumber,
	}
}

// ToUpdateInput converts a parent body for PUT or PATCH.
func (p *ParentPayload) ToUpdateInput(id uuid.UUID, partial bool) pettypes.UpdateParentInput {
	return pettypes.UpdateParentInput{ID: id, ParentMutationInput: p.ToCreateInput(), Partial: partial}
}

// ToUpdateInput converts a photo body.
func (p *PhotoPayload) ToUpdateInput(petID, photoID uuid.UUID) pettypes.UpdatePhotoInput {
	return pettypes.UpdatePhotoInput{PetID: petID, PhotoID: photoID, Order: p.Order, IsMain: p.IsMain}
}

func patch[T any](n Nullable[T]) pettypes.Patch[T] {
	switch {
	case !n.Present:
		return pettypes.Patch[T]{}
	case n.Null:
		return pettypes.Clear[T]()
	default:
		return pettypes.Assign(n.Value)
	}
}

func decimalPatch(n Nullable[Decimal]) pettypes.Patch[float64] {
	p := patch(n)
	if p.Value == nil {
		return pettypes.Patch[float64]{Set: p.Set}
	}
	return pettypes.Assign(float64(*p.Value))
}

func datePatch(n Nullable[types.Date]) pettypes.Patch[time.Time] {
	p := patch(n)
	if p.Value == nil {
		return pettypes.Patch[time.Time]{Set: p.Set}
	}
	return pettypes.Assign(p.Value.Time)
}

// referencePatch parses a primary key member; non-string JSON and malformed UUIDs are rejected.
func referencePatch(v *domain.ValidationError, field string, n Nullable[json.RawMessage]) pettypes.Patch[uuid.UUID] {
	if !n.Present {
		return pettypes.Patch[uuid.UUID]{}
	}
	if n.Null {
		return pettypes.Clear[uuid.UUID]()
	}
	var raw string
	if err := json.Unmarshal(n.Value, &raw); err != nil {
		v.Add(field, fmt.Sprintf(msgIncorrectPK, jsonKind(n.Value)))
		return pettypes.Patch[uuid.UUID]{}
	}
	if strings.TrimSpace(raw) == "" {
		return pettypes.Clear[uuid.UUID]()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		v.Add(field, fmt.Sprintf(msgIncorrectPK, "str"))
		return pettypes.Patch[uuid.UUID]{}
	}
	return pettypes.Assign(id)
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "str"
	}
	switch trimmed[0] {
	case '{':
		return "dict"
	case '[':
		return "list"
	case 't', 'f':
		return "bool"
	default:
		if bytes.ContainsAny(trimmed, ".eE") {
			return "float"
		}
		return "int"
	}
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func tagSlice[T ~string](values *[]string) *[]T {
	if values == nil {
		return nil
	}
	out := make([]T, 0, len(*values))
	for _, v := range *values {
		out = append(out, T(v))
	}
	return &out
}
