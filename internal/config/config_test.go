package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Default() should validate cleanly: %v", err)
	}
}

func TestValidateRejectsEmptyModels(t *testing.T) {
	cfg := Default()
	cfg.PanelModels = nil
	if err := Validate(cfg); err != ErrMissingModel {
		t.Fatalf("Validate() = %v, want ErrMissingModel", err)
	}
}

func TestValidateRejectsNegativeCapacities(t *testing.T) {
	cfg := Default()
	cfg.CacheCapacity = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative CacheCapacity")
	}
}
