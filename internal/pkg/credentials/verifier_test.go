package credentials

import (
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash returned the plaintext")
	}

	if !Verify(&hash, "correct horse battery staple") {
		t.Error("Verify rejected the correct password")
	}
	if Verify(&hash, "wrong password") {
		t.Error("Verify accepted a wrong password")
	}
}

func TestVerifyEdgeCases(t *testing.T) {
	empty := ""
	garbage := "not-a-bcrypt-hash"

	tests := []struct {
		name      string
		hash      *string
		candidate string
	}{
		{name: "nil hash", hash: nil, candidate: "anything"},
		{name: "empty hash", hash: &empty, candidate: "anything"},
		{name: "garbage hash", hash: &garbage, candidate: "anything"},
		{name: "nil hash empty candidate", hash: nil, candidate: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify(tt.hash, tt.candidate) {
				t.Errorf("Verify(%v, %q) = true, want false", tt.hash, tt.candidate)
			}
		})
	}
}
