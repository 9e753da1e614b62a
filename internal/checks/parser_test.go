package checks

import (
	"reflect"
	"testing"
	"time"
)

func TestParse_SkipsBlanksAndComments(t *testing.T) {
	text := "\n   \n# a comment\n  # indented comment\n"
	settings, specs := Parse(text, DefaultSettings())
	if len(specs) != 0 {
		t.Fatalf("want no checks, got %+v", specs)
	}
	if settings != DefaultSettings() {
		t.Fatalf("settings changed by blank/comment lines: %+v", settings)
	}
}

func TestParse_Settings(t *testing.T) {
	text := "WAIT=2\n/alive\nTIMEOUT=7 # per request\nATTEMPTS=1\nATTEMPTS=9\nNOPE=4\n"
	settings, specs := Parse(text, DefaultSettings())

	if settings.Wait != 2*time.Second {
		t.Fatalf("WAIT not applied: %v", settings.Wait)
	}
	if settings.Timeout != 7*time.Second {
		t.Fatalf("TIMEOUT with trailing comment not applied: %v", settings.Timeout)
	}
	if settings.Attempts != 9 {
		t.Fatalf("later ATTEMPTS should win, got %d", settings.Attempts)
	}
	if len(specs) != 1 || specs[0].Pathname != "/alive" {
		t.Fatalf("check line interleaved with settings lost: %+v", specs)
	}
}

func TestParse_MalformedSettingKeepsPrevious(t *testing.T) {
	settings, _ := Parse("WAIT=3\nWAIT=soon\n", DefaultSettings())
	if settings.Wait != 3*time.Second {
		t.Fatalf("malformed WAIT should keep previous value, got %v", settings.Wait)
	}
}

func TestParse_VirtualHostForm(t *testing.T) {
	_, specs := Parse("//www.example.com/health  All systems go", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	got := specs[0]
	want := CheckSpec{
		Protocol:   ProtocolHTTP,
		Hostname:   "www.example.com",
		HostHeader: true,
		Pathname:   "/health",
		Expected:   "All systems go",
	}
	if got != want {
		t.Fatalf("mismatch:\nwant=%+v\ngot =%+v", want, got)
	}
}

func TestParse_HTTPSSchemePrefix(t *testing.T) {
	_, specs := Parse("https:/secure/path", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	got := specs[0]
	if got.Protocol != ProtocolHTTPS || got.Hostname != "localhost" || got.HostHeader || got.Pathname != "/secure/path" {
		t.Fatalf("https:/secure/path parsed wrong: %+v", got)
	}
}

func TestParse_SchemeWithVirtualHost(t *testing.T) {
	_, specs := Parse("https://admin.example.com/login  Sign in", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	got := specs[0]
	if got.Protocol != ProtocolHTTPS || got.Hostname != "admin.example.com" || !got.HostHeader || got.Pathname != "/login" {
		t.Fatalf("scheme+host form parsed wrong: %+v", got)
	}
}

func TestParse_HostOnlyURLGetsRootPath(t *testing.T) {
	_, specs := Parse("//example.com", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	if specs[0].Pathname != "/" || specs[0].Hostname != "example.com" {
		t.Fatalf("//host should probe root: %+v", specs[0])
	}
}

func TestParse_BareDoubleSlashIsRootWithoutHostHeader(t *testing.T) {
	_, specs := Parse("//", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	if specs[0].Pathname != "/" || specs[0].HostHeader {
		t.Fatalf("bare // should be root with no Host override: %+v", specs[0])
	}
}

func TestParse_IgnoresNonURLLines(t *testing.T) {
	text := "not-a-path expected\nftp:/whatever\nweb: bundle exec rails\n"
	_, specs := Parse(text, DefaultSettings())
	if len(specs) != 0 {
		t.Fatalf("non-absolute-path lines should be ignored: %+v", specs)
	}
}

func TestParse_ExpectedKeepsInnerSpaces(t *testing.T) {
	_, specs := Parse("/  Welcome to our site", DefaultSettings())
	if len(specs) != 1 {
		t.Fatalf("want 1 check, got %d", len(specs))
	}
	if specs[0].Pathname != "/" || specs[0].Expected != "Welcome to our site" {
		t.Fatalf("expected pattern mangled: %+v", specs[0])
	}
}

func TestParse_Idempotent(t *testing.T) {
	text := "WAIT=1\n/a\n//h/b  ok\nhttps:/c\n# x\n"
	s1, c1 := Parse(text, DefaultSettings())
	s2, c2 := Parse(text, DefaultSettings())
	if s1 != s2 || !reflect.DeepEqual(c1, c2) {
		t.Fatalf("re-parse differs:\n%+v %+v\n%+v %+v", s1, c1, s2, c2)
	}
}
