package cache

import (
	"strings"
	"testing"
)

func TestUserKey(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want string
	}{
		{"simple id", 1, "user:1"},
		{"large id", 9223372036854775807, "user:9223372036854775807"},
		{"zero id", 0, "user:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserKey(tt.id); got != tt.want {
				t.Errorf("UserKey(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestAgeRangeKey(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     string
	}{
		{"typical range", 20, 40, "users:age:20:40"},
		{"single age", 30, 30, "users:age:30:30"},
		{"zero bounds", 0, 0, "users:age:0:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeRangeKey(tt.min, tt.max); got != tt.want {
				t.Errorf("AgeRangeKey(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestKeyPrefixesAreDisjoint(t *testing.T) {
	// Prefix-based invalidation relies on the single-record namespace never
	// matching a range key.
	if strings.HasPrefix(AgeRangeKey(20, 40), UserKeyPrefix) {
		t.Errorf("range key %q must not live under %q", AgeRangeKey(20, 40), UserKeyPrefix)
	}
	if strings.HasPrefix(UserKey(42), AgeRangeKeyPrefix) {
		t.Errorf("user key %q must not live under %q", UserKey(42), AgeRangeKeyPrefix)
	}
}

func TestRangeKeysDistinguishBounds(t *testing.T) {
	if AgeRangeKey(20, 40) == AgeRangeKey(2, 40) || AgeRangeKey(20, 40) == AgeRangeKey(20, 4) {
		t.Error("different bounds must produce different keys")
	}
}
