package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// FingerprintCreatePet builds a deterministic hash of the create payload (excluding the idempotency key).
// Tag sets are sorted so that reordering tags is not treated as a different request.
func FingerprintCreatePet(input pettypes.PetMutationInput) (string, error) {
	normalized := input
	if input.Lifestyle != nil {
		tags := append([]domain.Lifestyle(nil), (*input.Lifestyle)...)
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		normalized.Lifestyle = &tags
	}
	if input.Characteristics != nil {
		tags := append([]domain.Characteristic(nil), (*input.Characteristics)...)
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		normalized.Characteristics = &tags
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
