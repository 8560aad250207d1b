package security

import (
	"strings"
	"testing"
)

func TestHashPasswordDeterministic(t *testing.T) {
	salt := "9f$Kq1!aZ.x?0*Lw-7/RpT=+cE@#bMnV"
	first := HashPassword(salt, "Abcdef1!")
	second := HashPassword(salt, "Abcdef1!")
	if first != second {
		t.Fatalf("identical inputs produced different digests")
	}
	if len(first) != 128 {
		t.Fatalf("expected 128 hex chars for a 512-bit digest, got %d", len(first))
	}
}

func TestHashPasswordInputSensitivity(t *testing.T) {
	base := HashPassword("saltsaltsaltsaltsaltsaltsaltsalt", "Abcdef1!")
	if HashPassword("saltsaltsaltsaltsaltsaltsaltsalX", "Abcdef1!") == base {
		t.Fatalf("changing the salt should change the digest")
	}
	if HashPassword("saltsaltsaltsaltsaltsaltsaltsalt", "Abcdef1?") == base {
		t.Fatalf("changing the password should change the digest")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	stored := HashPassword(salt, "Abcdef1!")

	if !VerifyPassword(salt, "Abcdef1!", stored) {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword(salt, "abcdef1!", stored) {
		t.Fatalf("expected non-matching password to fail")
	}
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "valid", password: "Abcdef1!", want: true},
		{name: "valid all classes long", password: "Xy9#longerPassw0rd!", want: true},
		{name: "empty", password: "", want: false},
		{name: "too short", password: "Ab1!xyz", want: false},
		{name: "max length ok", password: "Aa1!" + strings.Repeat("x", 21), want: true},
		{name: "too long", password: "Aa1!" + strings.Repeat("x", 22), want: false},
		{name: "missing lowercase", password: "ABCDEF1!", want: false},
		{name: "missing uppercase", password: "abcdef1!", want: false},
		{name: "missing digit", password: "Abcdefg!", want: false},
		{name: "missing special", password: "Abcdefg1", want: false},
		{name: "special outside set", password: "Abcdefg1~", want: false},
		{name: "every special accepted", password: "Abcdef1" + specialCharset[:1], want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckStrength(tt.password); got != tt.want {
				t.Fatalf("CheckStrength(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestNewSaltShapeAndEntropy(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		salt, err := NewSalt()
		if err != nil {
			t.Fatalf("new salt: %v", err)
		}
		if len([]rune(salt)) != SaltLength {
			t.Fatalf("expected %d chars, got %d", SaltLength, len([]rune(salt)))
		}
		for _, r := range salt {
			if r < 32 || r > 126 {
				t.Fatalf("salt char %q outside printable ASCII", r)
			}
		}
		seen[salt] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected distinct salts across invocations")
	}
}

func TestNewActivationCodeShape(t *testing.T) {
	code, err := NewActivationCode()
	if err != nil {
		t.Fatalf("new activation code: %v", err)
	}
	if len(code) != ActivationCodeLength {
		t.Fatalf("expected %d chars, got %d", ActivationCodeLength, len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(string(activationCharset), r) {
			t.Fatalf("code char %q outside alphanumeric charset", r)
		}
	}
}

func TestMapByteUniform(t *testing.T) {
	// Every byte below the rejection cutoff must land on a residue, every
	// byte at or above it must be redrawn, and the accepted bytes must
	// spread evenly so no charset index is favored.
	for _, max := range []int{62, 95, len(activationCharset)} {
		counts := make([]int, max)
		accepted := 0
		for b := 0; b < 256; b++ {
			idx, ok := mapByte(byte(b), max)
			if !ok {
				if b < 256-256%max {
					t.Fatalf("max %d: byte %d rejected below the cutoff", max, b)
				}
				continue
			}
			if idx < 0 || idx >= max {
				t.Fatalf("max %d: byte %d mapped out of range to %d", max, b, idx)
			}
			counts[idx]++
			accepted++
		}
		if accepted != 256-256%max {
			t.Fatalf("max %d: expected %d accepted bytes, got %d", max, 256-256%max, accepted)
		}
		for idx, n := range counts {
			if n != accepted/max {
				t.Fatalf("max %d: index %d drawn %d times, want %d", max, idx, n, accepted/max)
			}
		}
	}
}
