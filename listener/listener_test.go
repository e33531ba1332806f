package listener

import "testing"

func TestNewBindsAndReportsNotTLS(t *testing.T) {
	l, err := New("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l.Close()

	if l.IsTLS() {
		t.Fatalf("expected plaintext listener to report IsTLS() == false")
	}

	if l.TLSConfig("") != nil {
		t.Fatalf("expected nil TLS config for a plaintext listener")
	}
}

func TestNewFailsOnInvalidAddress(t *testing.T) {
	if _, err := New("not-a-valid-address", nil); err == nil {
		t.Fatalf("expected bind error for an invalid address")
	}
}
