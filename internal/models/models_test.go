package models

import (
	"encoding/json"
	"testing"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestElementPropertiesMergeKeepsUnrelatedKeys(t *testing.T) {
	stored := ElementProperties{Visible: boolPtr(true), Locked: boolPtr(false), Scale: floatPtr(1)}
	patch := ElementProperties{Locked: boolPtr(true), Label: strPtr("Main gate")}

	got := stored.Merge(patch)

	if got.Visible == nil || !*got.Visible {
		t.Fatalf("visible should be untouched, got %+v", got.Visible)
	}
	if got.Locked == nil || !*got.Locked {
		t.Fatalf("locked should be patched, got %+v", got.Locked)
	}
	if got.Scale == nil || *got.Scale != 1 {
		t.Fatalf("scale should be untouched, got %+v", got.Scale)
	}
	if got.Label == nil || *got.Label != "Main gate" {
		t.Fatalf("label should be added, got %+v", got.Label)
	}
}

func TestElementPropertiesPatchEncodesOnlySetKeys(t *testing.T) {
	b, err := json.Marshal(ElementProperties{Locked: boolPtr(true)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"locked":true}` {
		t.Fatalf("unexpected patch encoding %s", b)
	}
}

func TestJSONBScan(t *testing.T) {
	var a TentAmenities
	if err := a.Scan([]byte(`{"has_power":true,"accessible":true}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !a.HasPower || !a.Accessible || a.HasWifi {
		t.Fatalf("unexpected amenities %+v", a)
	}

	var slots AvailabilitySlots
	if err := slots.Scan(nil); err != nil || slots != nil {
		t.Fatalf("nil scan should leave slots empty, got %v %v", slots, err)
	}
	if err := slots.Scan(42); err == nil {
		t.Fatal("expected error for unsupported source")
	}

	v, err := ElementPath(nil).Value()
	if err != nil || v != "[]" {
		t.Fatalf("nil path should encode as [], got %v %v", v, err)
	}
}

func TestVenueRoleGrants(t *testing.T) {
	if !VenueRoleEditor.Grants(PermissionWrite) || VenueRoleEditor.Grants(PermissionAdmin) {
		t.Fatal("editor should write but not admin")
	}
	if !VenueRoleViewer.Grants(PermissionRead) || VenueRoleViewer.Grants(PermissionWrite) {
		t.Fatal("viewer should only read")
	}
	if !VenueRoleOwner.Grants(PermissionAdmin) {
		t.Fatal("owner should admin")
	}
	if VenueRole("").Grants(PermissionRead) {
		t.Fatal("no role should grant nothing")
	}
}
