package locations

import "testing"

func TestLookupKnownLocation(t *testing.T) {
	loc, ok := Lookup("Hadera, Israel")
	if !ok {
		t.Fatal("expected Hadera, Israel to be registered")
	}
	if loc.Timezone != "Asia/Jerusalem" {
		t.Errorf("Timezone = %q, want Asia/Jerusalem", loc.Timezone)
	}
	if len(loc.Sources) == 0 {
		t.Error("expected at least one provider source")
	}
}

func TestLookupUnknownLocation(t *testing.T) {
	_, ok := Lookup("Nowhere, Atlantis")
	if ok {
		t.Error("expected unknown location to miss")
	}
}

func TestActiveSeparatesKnownFromUnknown(t *testing.T) {
	known, unknown := Active([]string{"Hadera, Israel", "Nowhere, Atlantis", "Hadera, Israel"})
	if len(known) != 1 {
		t.Errorf("expected 1 deduplicated known location, got %d", len(known))
	}
	if len(unknown) != 1 || unknown[0] != "Nowhere, Atlantis" {
		t.Errorf("expected 1 unknown location, got %v", unknown)
	}
}

func TestOrderedSourcesAscendingPriority(t *testing.T) {
	loc, _ := Lookup("Hadera, Israel")
	ordered := OrderedSources(loc)
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Priority < ordered[i-1].Priority {
			t.Fatalf("sources not in ascending priority order: %+v", ordered)
		}
	}
}
