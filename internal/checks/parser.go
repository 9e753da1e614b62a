package checks

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// checkURL matches the first token of a check line: an optional http/https
// scheme prefix followed by an absolute path.
var checkURL = regexp.MustCompile(`^(https?:)?/`)

type lineKind int

const (
	lineIgnored lineKind = iota
	lineSetting
	lineCheck
)

// line is the typed result of scanning one raw CHECKS line.
type line struct {
	kind  lineKind
	name  string // setting name, upper-cased as written
	value string // setting value, comment-stripped
	check CheckSpec
}

// Parse reads a CHECKS specification and returns the effective settings and
// the checks in file order. defaults seeds the settings; the text may
// override any of them. Blank lines, comments, and unrecognizable lines are
// skipped, never errors.
func Parse(text string, defaults Settings) (Settings, []CheckSpec) {
	settings := defaults
	var specs []CheckSpec

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		l := scanLine(sc.Text())
		switch l.kind {
		case lineSetting:
			applySetting(&settings, l.name, l.value)
		case lineCheck:
			specs = append(specs, l.check)
		}
	}
	return settings, specs
}

func scanLine(raw string) line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line{kind: lineIgnored}
	}

	// NAME=VALUE takes precedence over check parsing: any '=' inside the
	// first token makes this a setting line.
	if eq := strings.IndexByte(trimmed, '='); eq > 0 && !strings.ContainsAny(trimmed[:eq], " \t") {
		value := trimmed[eq+1:]
		if hash := strings.IndexByte(value, '#'); hash >= 0 {
			value = value[:hash]
		}
		return line{
			kind:  lineSetting,
			name:  trimmed[:eq],
			value: strings.TrimSpace(value),
		}
	}

	fields := strings.Fields(trimmed)
	url := fields[0]
	expected := ""
	if len(fields) > 1 {
		// The expected pattern is the remainder of the line, spaces kept.
		expected = strings.TrimSpace(trimmed[len(url):])
	}

	if !checkURL.MatchString(url) {
		return line{kind: lineIgnored}
	}
	return line{kind: lineCheck, check: parseCheck(url, expected)}
}

func parseCheck(url, expected string) CheckSpec {
	spec := CheckSpec{
		Protocol: ProtocolHTTP,
		Hostname: "localhost",
		Expected: expected,
	}

	switch {
	case strings.HasPrefix(url, "https:"):
		spec.Protocol = ProtocolHTTPS
		url = strings.TrimPrefix(url, "https:")
	case strings.HasPrefix(url, "http:"):
		url = strings.TrimPrefix(url, "http:")
	}

	if rest, ok := strings.CutPrefix(url, "//"); ok {
		host, path, found := strings.Cut(rest, "/")
		if host != "" {
			spec.Hostname = host
			spec.HostHeader = true
		}
		if !found {
			// "//host" with no path: probe the root.
			spec.Pathname = "/"
		} else {
			spec.Pathname = "/" + path
		}
		return spec
	}

	spec.Pathname = url
	return spec
}

func applySetting(s *Settings, name, value string) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		// A malformed value keeps the previous setting; settings lines are
		// never a reason to fail a deploy.
		return
	}
	switch name {
	case "WAIT":
		s.Wait = time.Duration(n) * time.Second
	case "TIMEOUT":
		s.Timeout = time.Duration(n) * time.Second
	case "ATTEMPTS":
		s.Attempts = n
	}
}
