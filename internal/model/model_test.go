package model

import "testing"

func TestMonthName(t *testing.T) {
	want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for i, name := range want {
		if got := MonthName(i); got != name {
			t.Errorf("MonthName(%d) = %q, want %q", i, got, name)
		}
	}
}

func TestProperty_Ownership(t *testing.T) {
	half := 50.0
	if got := (Property{OwnershipPercentage: &half}).Ownership(); got != 50 {
		t.Errorf("Expected 50, got %v", got)
	}
	if got := (Property{}).Ownership(); got != DefaultOwnershipPercentage {
		t.Errorf("Expected default %v, got %v", DefaultOwnershipPercentage, got)
	}
}

func TestProperty_Counted(t *testing.T) {
	for status, want := range map[PropertyStatus]bool{
		PropertyStatusActive:  true,
		PropertyStatusPending: true,
		PropertyStatusSold:    false,
	} {
		if got := (Property{Status: status}).Counted(); got != want {
			t.Errorf("Counted() for %s = %v, want %v", status, got, want)
		}
	}
}
