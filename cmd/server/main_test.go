package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	gossh "github.com/gliderlabs/ssh"
	"go.uber.org/zap"

	"satchel/internal/config"
	"satchel/internal/metrics"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "Alice", "Alice"},
		{"exactly 16 chars", "1234567890123456", "1234567890123456"},
		{"long name truncated", "ThisIsAVeryLongUsername", "ThisIsAVeryLongU"},
		{"control chars stripped", "he\x00ll\x1bo", "hello"},
		{"ansi escape partial", "he\x1b[31mllo", "he[31mllo"},
		{"empty input", "", ""},
		{"pure control chars", "\x00\x01\x02\x1b", ""},
		{"multi-byte runes truncated by rune count", "日本語のテスト名前ですよね東京大阪京都", "日本語のテスト名前ですよね東京大"},
		{"emoji kept whole", "🎮Player🎮Name🎮Long", "🎮Player🎮Name🎮Lon"},
		{"mixed printable and control", "a\x00b\x01c\x02d", "abcd"},
		{"tabs stripped", "hello\tworld", "helloworld"},
		{"newlines stripped", "hello\nworld", "helloworld"},
		{"invalid utf-8 dropped", "ab\xffcd", "abcd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("sanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		name    string
		term    string
		allowed bool
	}{
		{"xterm-256color", "xterm-256color", true},
		{"tmux", "tmux", true},
		{"linux", "linux", true},
		{"vt100", "vt100", true},
		{"screen", "screen", true},
		{"rxvt-unicode-256color", "rxvt-unicode-256color", true},
		{"unknown term", "evil-term", false},
		{"path traversal", "../../../etc/passwd", false},
		{"empty string", "", false},
		{"xterm-kitty", "xterm-kitty", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := allowedTerms[tc.term]
			if got != tc.allowed {
				t.Errorf("allowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
			}
		})
	}
}

func TestHostKeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	log := zap.NewNop()

	first, err := loadOrCreateHostKey(path, log)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("host key not written: %v", err)
	}
	second, err := loadOrCreateHostKey(path, log)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(first.PublicKey().Marshal(), second.PublicKey().Marshal()) {
		t.Error("reloaded host key differs from the generated one")
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "addr", "host-key", "max-sessions", "metrics-addr", "items", "debug", "log-level", "log-file"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s", name)
		}
	}
}

// fakeSession implements only what handleSession touches before a screen
// is created.
type fakeSession struct {
	gossh.Session
	out bytes.Buffer
	pty bool
}

func (f *fakeSession) Write(b []byte) (int, error) { return f.out.Write(b) }
func (f *fakeSession) User() string                { return "tester" }
func (f *fakeSession) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}
func (f *fakeSession) Pty() (gossh.Pty, <-chan gossh.Window, bool) {
	return gossh.Pty{Term: "xterm"}, nil, f.pty
}

func newTestServer(maxSessions int) *server {
	cfg := config.Default()
	return &server{
		cfg:     &cfg,
		log:     zap.NewNop(),
		metrics: metrics.Nop{},
		slots:   make(chan struct{}, maxSessions),
	}
}

func TestHandleSessionRequiresPTY(t *testing.T) {
	s := newTestServer(1)
	sess := &fakeSession{}
	s.handleSession(sess)
	if !bytes.Contains(sess.out.Bytes(), []byte("requires a PTY")) {
		t.Errorf("output = %q, want PTY hint", sess.out.String())
	}
}

func TestHandleSessionRefusesWhenFull(t *testing.T) {
	s := newTestServer(1)
	s.slots <- struct{}{} // one game already running

	sess := &fakeSession{pty: true}
	s.handleSession(sess)
	if !bytes.Contains(sess.out.Bytes(), []byte("server is full")) {
		t.Errorf("output = %q, want full notice", sess.out.String())
	}
	if len(s.slots) != 1 {
		t.Errorf("slots in use = %d, want 1", len(s.slots))
	}
}
