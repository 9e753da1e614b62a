package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/deploycheck/internal/checks"
	"github.com/hamed0406/deploycheck/internal/report"
)

// maxBodyBytes caps how much of a response we read for pattern matching.
const maxBodyBytes = 1 << 20

// Target is the network endpoint the executor actually connects to. The
// CheckSpec hostname never influences the connection, only the Host header.
type Target struct {
	IP   string
	Port string
}

func (t Target) String() string { return t.IP + ":" + t.Port }

// Result classifies one executed check.
type Result struct {
	Spec       checks.CheckSpec
	URL        string
	Passed     bool
	StatusCode int // 0 on transport error
	Reason     string
}

// Err converts a failed Result into an error for aggregation.
func (r Result) Err() error {
	if r.Passed {
		return nil
	}
	return fmt.Errorf("%s: %s", r.URL, r.Reason)
}

// Checker runs one check against a target. The attempt loop depends on this
// interface so tests can substitute fakes.
type Checker interface {
	Check(ctx context.Context, spec checks.CheckSpec, target Target) Result
}

// Executor issues a single HTTP(S) request per check. Redirects are
// followed; TLS verification is skipped because the target is a
// just-started container, frequently behind a placeholder certificate.
type Executor struct {
	Client   *http.Client
	Reporter report.Reporter
}

func NewExecutor(timeout time.Duration, rep report.Reporter) *Executor {
	return &Executor{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
				DisableKeepAlives: true,
			},
		},
		Reporter: rep,
	}
}

func (e *Executor) Check(ctx context.Context, spec checks.CheckSpec, target Target) Result {
	path := spec.Pathname
	if path == "" {
		path = "/"
	}
	url := fmt.Sprintf("%s://%s%s", spec.Protocol, target, path)
	res := Result{Spec: spec, URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Reason = err.Error()
		e.report(res)
		return res
	}
	if spec.HostHeader {
		req.Host = spec.Hostname
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		res.Reason = err.Error()
		e.report(res)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		res.Reason = "read body: " + err.Error()
		e.report(res)
		return res
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Reason = resp.Status
		e.report(res)
		return res
	}

	if spec.Expected != "" && !bodyContains(body, spec.Expected) {
		res.Reason = fmt.Sprintf("response does not contain %q", spec.Expected)
		e.report(res)
		return res
	}

	res.Passed = true
	e.report(res)
	return res
}

// bodyContains matches pattern against body as a regex; a pattern that does
// not compile is degraded to a literal substring, so a stray metacharacter
// in a CHECKS file cannot fail a deploy by itself.
func bodyContains(body []byte, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return strings.Contains(string(body), pattern)
	}
	return re.Match(body)
}

func (e *Executor) report(r Result) {
	fields := []zap.Field{
		zap.String("url", r.URL),
		zap.Int("status", r.StatusCode),
	}
	if r.Spec.Expected != "" {
		fields = append(fields, zap.String("expected", r.Spec.Expected))
	}
	if r.Spec.HostHeader {
		fields = append(fields, zap.String("host", r.Spec.Hostname))
	}
	if r.Passed {
		e.Reporter.Verbose("check_passed", fields...)
		return
	}
	e.Reporter.Warn("check_failed", append(fields, zap.String("reason", r.Reason))...)
}
