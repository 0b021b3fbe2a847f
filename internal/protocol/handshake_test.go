package protocol

import "testing"

func TestAcceptKeyRFCExample(t *testing.T) {
	t.Parallel()

	// RFC 6455 section 1.3 canonical worked example.
	got := AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("AcceptKey() = %q, want %q", got, want)
	}
}

func TestHandshakeResponseShape(t *testing.T) {
	t.Parallel()

	resp := string(HandshakeResponse("dGhlIHNhbXBsZSBub25jZQ=="))
	want := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n\r\n"
	if resp != want {
		t.Errorf("HandshakeResponse() = %q, want %q", resp, want)
	}
}

func TestIsWebSocketUpgrade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		headers map[string]string
		want    bool
	}{
		{map[string]string{"upgrade": "websocket"}, true},
		{map[string]string{"upgrade": "WebSocket"}, true},
		{map[string]string{"upgrade": "h2c"}, false},
		{map[string]string{}, false},
	}
	for _, tc := range cases {
		if got := IsWebSocketUpgrade(tc.headers); got != tc.want {
			t.Errorf("IsWebSocketUpgrade(%v) = %v, want %v", tc.headers, got, tc.want)
		}
	}
}
