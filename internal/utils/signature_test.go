package utils

import "testing"

func TestSignPayload(t *testing.T) {
	payload := []byte("<report/>")
	sig := SignPayload(payload, "secret")

	if len(sig) != 64 {
		t.Errorf("signature length = %d, want 64", len(sig))
	}
	if sig != SignPayload(payload, "secret") {
		t.Error("signature is not deterministic")
	}
	if sig == SignPayload([]byte("<report />"), "secret") {
		t.Error("modified payload must change the signature")
	}
	if sig == SignPayload(payload, "other") {
		t.Error("different secret must change the signature")
	}
}
