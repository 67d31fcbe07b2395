package source

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func selectionNames(adapters []Adapter) []string {
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

func TestRegistrySelectOrdersByIndustry(t *testing.T) {
	registry := NewRegistry(
		NewRemoteOK(zap.NewNop()),
		NewArbeitnow(zap.NewNop()),
		NewAdzuna(zap.NewNop(), "id", "key"),
		NewHeadHunter(zap.NewNop(), ""),
		NewDemo(),
	)

	got := selectionNames(registry.Select("software_engineering"))
	want := []string{"remoteok", "arbeitnow", "adzuna", "headhunter", "demo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("software_engineering order = %v, want %v", got, want)
	}

	got = selectionNames(registry.Select("no such industry"))
	want = []string{"adzuna", "headhunter", "remoteok", "arbeitnow", "demo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("default order = %v, want %v", got, want)
	}
}

func TestRegistrySelectSkipsUnregistered(t *testing.T) {
	registry := NewRegistry(NewDemo(), NewArbeitnow(zap.NewNop()))

	got := selectionNames(registry.Select("software_engineering"))
	want := []string{"arbeitnow", "demo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
}

func TestRegistrySelectIsStable(t *testing.T) {
	registry := NewRegistry(
		NewRemoteOK(zap.NewNop()),
		NewArbeitnow(zap.NewNop()),
		NewHeadHunter(zap.NewNop(), ""),
	)

	first := selectionNames(registry.Select("data_science"))
	for i := 0; i < 10; i++ {
		if next := selectionNames(registry.Select("data_science")); !reflect.DeepEqual(next, first) {
			t.Fatalf("selection order changed between calls: %v vs %v", next, first)
		}
	}
}
