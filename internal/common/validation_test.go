package common

import "testing"

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"non-empty string", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"nil", nil, true},
		{"non-string value", 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required("field", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Required(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestCurrencyCode(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"USD", "USD", false},
		{"EUR", "EUR", false},
		{"lowercase", "usd", true},
		{"too short", "US", true},
		{"too long", "USDT", true},
		{"empty", "", true},
		{"not a string", 840, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CurrencyCode("currency", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("CurrencyCode(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator()
	v.Field("id", "", Required).
		Field("currency", "usd", CurrencyCode).
		Field("vendor", "AWS", Required)

	if !v.HasErrors() {
		t.Fatal("expected validation errors")
	}
	if got := len(v.Errors()); got != 2 {
		t.Errorf("error count = %d, want 2", got)
	}
	if v.Error() == nil {
		t.Error("combined error is nil")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.Server.HTTPAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a missing HTTP address")
	}

	cfg = LoadConfig()
	cfg.Engine.ProbableDuplicateWindowDays = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a negative window")
	}
}
