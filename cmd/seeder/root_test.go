package main

import (
	"strings"
	"testing"

	"concierge/internal/domain"
)

func TestReadProperties(t *testing.T) {
	in := `[
	  {"phone_number":"+15551230000","check_in":"3:00 PM","wifi":"Guest / pw"},
	  {"phone_number":"+15551230001","recommendations":"Pier 39","extra":"ignored"}
	]`
	props, err := readProperties(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("got %d properties", len(props))
	}
	if props[0].Value(domain.FieldCheckIn) != "3:00 PM" || props[0].Value(domain.FieldWifi) != "Guest / pw" {
		t.Fatalf("unexpected first property: %+v", props[0])
	}
	if props[1].Value(domain.FieldRecommendations) != "Pier 39" || len(props[1].Values) != 1 {
		t.Fatalf("unexpected second property: %+v", props[1])
	}
}

func TestReadProperties_Invalid(t *testing.T) {
	if _, err := readProperties(strings.NewReader(`{"phone_number":"+1"}`)); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestRootCmd_RequiresFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing --file error")
	}
}
