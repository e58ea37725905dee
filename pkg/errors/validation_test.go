package errors

import (
	"testing"
)

func TestValidateWidth(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"reference", 32, false},
		{"max", MaxWidth, false},

		{"negative", -1, true},
		{"too large", MaxWidth + 1, true},
		{"millions of layers", 60, true},
		{"billions of layers", 80, true},
		{"old bound", 96, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWidth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWidth(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidWidth) {
				t.Errorf("ValidateWidth(%d) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidWidth)
			}
		})
	}
}

func TestValidateHeight(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"one", 1, false},
		{"reference", 10, false},
		{"max", MaxHeight, false},

		{"zero", 0, true},
		{"negative", -3, true},
		{"too large", MaxHeight + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeight(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHeight(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidHeight) {
				t.Errorf("ValidateHeight(%d) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidHeight)
			}
		})
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxW, maxH    int
		wantCode      Code
	}{
		{"within limits", 32, 10, 36, 64, ""},
		{"limits disabled", 40, 100, 0, 0, ""},
		{"width over limit", 37, 10, 36, 64, ErrCodeInvalidWidth},
		{"height over limit", 32, 65, 36, 64, ErrCodeInvalidHeight},
		{"negative width", -1, 10, 36, 64, ErrCodeInvalidWidth},
		{"zero height", 9, 0, 36, 64, ErrCodeInvalidHeight},
		{"limit above library bound", MaxWidth + 1, 10, 96, 64, ErrCodeInvalidWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBounds(tt.width, tt.height, tt.maxW, tt.maxH)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateBounds() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}
