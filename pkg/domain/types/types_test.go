package types_test

import (
	"testing"

	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

func TestFactorID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.FactorID
		wantErr bool
	}{
		{"valid lowercase", "skill-level", false},
		{"valid single word", "motive", false},
		{"valid multi hyphen", "loss-of-confidentiality", false},
		{"empty", "", true},
		{"uppercase", "Skill-Level", true},
		{"spaces", "skill level", true},
		{"underscore", "skill_level", true},
		{"starting with hyphen", "-motive", true},
		{"ending with hyphen", "motive-", true},
		{"double hyphen", "skill--level", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("FactorID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.SessionID
		wantErr bool
	}{
		{"generated", types.NewSessionID(), false},
		{"literal uuid", "0b6f5a4e-8f3c-4a53-9d0e-3f2b1c9a7e11", false},
		{"empty", "", true},
		{"not a uuid", "session-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("SessionID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
