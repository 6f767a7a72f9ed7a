package qr

import (
	"bytes"
	"encoding/json"
	"testing"
)

// encryptPayload mirrors the encryption step GenerateEncryptedQR applies
// before rendering, so tests can exercise the cipher without decoding PNGs.
func encryptPayload(g *Generator, payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return encryptAES(data, g.secret)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	gen := NewGenerator("test-secret")

	payload := Payload{
		TicketNumber: "TKT-1700000000000-ABCDEF123",
		EventID:      "jazz-night",
		AttendeeName: "Jane Wanjiku",
	}

	encrypted, err := encryptAES([]byte(`{"ticket_number":"x"}`), gen.secret)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	if encrypted == `{"ticket_number":"x"}` {
		t.Error("Expected ciphertext to differ from plaintext")
	}

	// Full payload round-trip through the same path the QR content takes
	data, err := encryptPayload(gen, payload)
	if err != nil {
		t.Fatalf("Failed to encrypt payload: %v", err)
	}

	got, err := gen.DecryptPayload(data)
	if err != nil {
		t.Fatalf("Failed to decrypt payload: %v", err)
	}
	if *got != payload {
		t.Errorf("Round-trip mismatch: got %+v, want %+v", got, payload)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	gen := NewGenerator("test-secret")
	other := NewGenerator("different-secret")

	data, err := encryptPayload(gen, Payload{TicketNumber: "TKT-1-A"})
	if err != nil {
		t.Fatalf("Failed to encrypt payload: %v", err)
	}

	if _, err := other.DecryptPayload(data); err == nil {
		t.Error("Expected decryption with a different key to fail")
	}
}

func TestGenerateEncryptedQRProducesPNG(t *testing.T) {
	gen := NewGenerator("test-secret")

	png, err := gen.GenerateEncryptedQR(Payload{
		TicketNumber: "TKT-1700000000000-ABCDEF123",
		EventID:      "jazz-night",
		AttendeeName: "Jane Wanjiku",
	})
	if err != nil {
		t.Fatalf("Failed to generate QR: %v", err)
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("Expected QR output to be a PNG image")
	}
}

func TestShortSecretIsNormalized(t *testing.T) {
	gen := NewGenerator("x")
	if len(gen.secret) != 32 {
		t.Errorf("Expected 32-byte normalized key, got %d bytes", len(gen.secret))
	}
}
