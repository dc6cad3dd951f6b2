package core

import "testing"

func TestCanonicalCategory(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"Comida", "Comida"},
		{"comida", "Comida"},
		{"COMIDA", "Comida"},
		{" transporte ", "Transporte"},
		{"lazer", "Lazer"},
		{"saúde", "Saúde"},
		{"educação", "Educação"},
		{"outros", "Outros"},
		{"bicicleta", "Outros"},
		{"", "Outros"},
		{"food", "Outros"},
	}
	for _, tc := range cases {
		if got := CanonicalCategory(tc.in); got != tc.out {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(cats))
	}
	// returned slice must be a copy, not the package state
	cats[0].ID = "mutated"
	if Categories()[0].ID != "Comida" {
		t.Fatalf("Categories must return a defensive copy")
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !IsValidCategory(c.ID) {
			t.Fatalf("%q should be valid", c.ID)
		}
	}
	if IsValidCategory("comida") {
		t.Fatalf("validity check is exact-case, lowercase should fail")
	}
	if IsValidCategory("Viagem") {
		t.Fatalf("unknown category should fail")
	}
}
