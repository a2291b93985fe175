//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pethub-api"
	ConsumerName = "pethub-web"

	StateCatalogEmpty = "the catalog is empty"
	StatePetExists    = "pet Buddy exists"
	StatePetMissing   = "no pet with the missing id"
	StateFeaturedPets = "featured and regular pets exist"
)

const (
	ExistingPetID = "5d1c0e4e-3b7a-4f0d-9a7e-2b1f6f3c8a01"
	MissingPetID  = "5d1c0e4e-3b7a-4f0d-9a7e-2b1f6f3c8aff"
	ExampleBreed  = "1a9b4f6e-0c7d-4e2a-8f3b-5d6c7e8f9a10"
)

const (
	ExamplePetName   = "Buddy"
	ExampleBreedName = "Beagle"
	ExamplePrice     = "45000.00"
	ExampleLocation  = "Pune"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreatePayload is the body the web client posts to create a pet.
func ExampleCreatePayload() map[string]any {
	return map[string]any{
		"name":                    ExamplePetName,
		"breed_id":                ExampleBreed,
		"price":                   ExamplePrice,
		"gender":                  "male",
		"location":                ExampleLocation,
		"rabies_vaccinated":       true,
		"rabies_vaccination_date": "2024-03-01",
		"lifestyle":               []string{"family_friendly"},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
