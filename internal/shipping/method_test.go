package shipping

import "testing"

func TestParseMethodID(t *testing.T) {
	t.Parallel()

	got, err := ParseMethodID("flat_rate:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "flat_rate" || got.Instance == nil || *got.Instance != 2 {
		t.Fatalf("unexpected method: %+v", got)
	}

	got, err = ParseMethodID("local_pickup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "local_pickup" || got.Instance != nil {
		t.Fatalf("expected no instance, got %+v", got)
	}

	if _, err := ParseMethodID(""); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := ParseMethodID("flat_rate:two"); err == nil {
		t.Fatal("expected error for non-numeric instance")
	}
	if _, err := ParseMethodID(":3"); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestMethodIDString(t *testing.T) {
	t.Parallel()

	two := 2
	if got := (MethodID{Name: "flat_rate", Instance: &two}).String(); got != "flat_rate:2" {
		t.Fatalf("unexpected string: %s", got)
	}
	if got := (MethodID{Name: "local_pickup"}).String(); got != "local_pickup" {
		t.Fatalf("unexpected string: %s", got)
	}
}

func TestIsLocalPickup(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"local_pickup":      true,
		"local_pickup_plus": true,
		"flat_rate":         false,
		"free_shipping":     false,
	}
	for name, want := range cases {
		if got := (MethodID{Name: name}).IsLocalPickup(); got != want {
			t.Fatalf("IsLocalPickup(%q) = %v, want %v", name, got, want)
		}
	}
}
