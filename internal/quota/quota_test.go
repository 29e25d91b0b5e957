package quota

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1 KB", 1024},
		{"1 MB", 1024 * 1024},
		{"1 GB", 1024 * 1024 * 1024},
		{"1 TB", 1024 * 1024 * 1024 * 1024},
		{"1.5 GB", 1.5 * 1024 * 1024 * 1024},
		{"512MB", 512 * 1024 * 1024},
		{"1,024 KB", 1024 * 1024},
		{"500", 500 * 1024 * 1024}, // bare numbers are megabytes
		{"12.3.4 GB", 12.3 * 1024 * 1024 * 1024},
		{"  2 gb ", 2 * 1024 * 1024 * 1024},
		{"", 0},
		{"unlimited", 0},
	}
	for _, tc := range cases {
		if got := ParseSize(tc.in); got != tc.want {
			t.Fatalf("ParseSize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	halfGB := 5 * 1024.0 * 1024 * 1024
	fullGB := 10 * 1024.0 * 1024 * 1024

	if got := ProgressBar(halfGB, fullGB); got != "▓▓▓▓▓░░░░░ 50%" {
		t.Fatalf("half bar = %q", got)
	}
	if got := ProgressBar(fullGB, fullGB); got != "▓▓▓▓▓▓▓▓▓▓ 100%" {
		t.Fatalf("full bar = %q", got)
	}
	if got := ProgressBar(0, fullGB); got != "░░░░░░░░░░ 0%" {
		t.Fatalf("empty bar = %q", got)
	}
	if got := ProgressBar(halfGB, 0); got != "▫▫▫▫▫▫▫▫▫▫" {
		t.Fatalf("zero total bar = %q", got)
	}
	// Remaining above total clamps to 100%.
	if got := ProgressBar(fullGB*2, fullGB); got != "▓▓▓▓▓▓▓▓▓▓ 100%" {
		t.Fatalf("over-full bar = %q", got)
	}
}

const bendithBody = `{
  "success": true,
  "data": {
    "subs_info": {
      "operator": "XL",
      "id_verified": "Ya",
      "net_type": "4G",
      "exp_date": "2026-09-30",
      "grace_until": "2026-10-30",
      "tenure": "24 bulan",
      "volte": {"device": true, "area": false, "simcard": true}
    },
    "package_info": {
      "packages": [
        {
          "name": "Xtra Combo",
          "expiry": "2026-09-15",
          "quotas": [
            {"name": "Kuota Utama", "total": "10 GB", "remaining": "5 GB"}
          ]
        }
      ]
    }
  }
}`

func TestBendithLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("check") != "package" {
			t.Errorf("missing check=package, query=%s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("number") != "628123456789" {
			t.Errorf("unexpected number %q", r.URL.Query().Get("number"))
		}
		w.Write([]byte(bendithBody))
	}))
	defer srv.Close()

	p := NewBendith(srv.Client(), srv.URL, 5*time.Second)
	report, err := p.Lookup(context.Background(), "628123456789")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	for _, want := range []string{
		"✅ Cek Kuota XL",
		"<code>628123456789</code>",
		"Xtra Combo",
		"5 GB / 10 GB",
		"▓▓▓▓▓░░░░░ 50%",
		"• Device: Ya",
		"• Area: Tidak",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestBendithNoSubsInfoFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	p := NewBendith(srv.Client(), srv.URL, 5*time.Second)
	if _, err := p.Lookup(context.Background(), "628123456789"); err == nil {
		t.Fatal("expected error when subs_info is absent")
	}
}

const kmspBody = `{
  "status": true,
  "data": {
    "data_sp": {
      "prefix": {"value": "XL"},
      "active_period": {"value": "30 hari"},
      "grace_period": {"value": "2026-10-30"},
      "status_4g": {"value": "Aktif"},
      "dukcapil": {"value": "Terverifikasi"},
      "active_card": {"value": "12 bulan"},
      "volte_device": {"value": "Support"},
      "volte_area": {"value": ""},
      "volte_simcard": {"value": ""}
    },
    "hasil": "===<br>🎁 Quota: Xtra Combo<br>🎁 Kuota: 10 GB<br>🌲 Sisa Kuota: 5 GB<br>🍂 Aktif Hingga: 15 Sep 2026<br>===<br>🎁 Benefit: Bonus Malam<br>🎁 Kuota: 2 GB<br>"
  }
}`

func TestKMSPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Basic test-auth" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("api key = %q", got)
		}
		if r.URL.Query().Get("isJSON") != "true" {
			t.Errorf("missing isJSON, query=%s", r.URL.RawQuery)
		}
		w.Write([]byte(kmspBody))
	}))
	defer srv.Close()

	p := NewKMSP(srv.Client(), KMSPOptions{
		BaseURL:    srv.URL,
		Auth:       "Basic test-auth",
		APIKey:     "test-key",
		AppVersion: "4.0.0",
		Timeout:    5 * time.Second,
	})
	report, err := p.Lookup(context.Background(), "628123456789")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	for _, want := range []string{
		"✅ Cek Kuota XL",
		"📦 <b>Xtra Combo</b>",
		"— <i>Exp: 15 Sep 2026</i>",
		"5 GB / 10 GB",
		"▓▓▓▓▓░░░░░ 50%",
		"📦 <b>Bonus Malam</b>",
		"<b>Kuota:</b> 2 GB",
		"• Device: Support",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "• Area:") {
		t.Fatalf("empty VoLTE fields must be omitted:\n%s", report)
	}
}

func TestKMSPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": false}`))
	}))
	defer srv.Close()

	p := NewKMSP(srv.Client(), KMSPOptions{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := p.Lookup(context.Background(), "628123456789")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type stubProvider struct {
	name   string
	report string
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Lookup(context.Context, string) (string, error) {
	s.calls++
	return s.report, s.err
}

func TestClientFallbackOrder(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("boom")}
	secondary := &stubProvider{name: "secondary", report: "ok"}

	report, err := NewClient(primary, secondary).Lookup(context.Background(), "628123456789")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if report != "ok" {
		t.Fatalf("report = %q", report)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestClientPrimaryWinsSkipsSecondary(t *testing.T) {
	primary := &stubProvider{name: "primary", report: "ok"}
	secondary := &stubProvider{name: "secondary", report: "never"}

	report, err := NewClient(primary, secondary).Lookup(context.Background(), "628123456789")
	if err != nil || report != "ok" {
		t.Fatalf("report = %q err = %v", report, err)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary must not be called when primary succeeds")
	}
}

func TestClientNotFoundStopsChain(t *testing.T) {
	primary := &stubProvider{name: "primary", err: ErrNotFound}
	secondary := &stubProvider{name: "secondary", report: "never"}

	_, err := NewClient(primary, secondary).Lookup(context.Background(), "628123456789")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if secondary.calls != 0 {
		t.Fatal("not-found must not fall back")
	}
}

func TestClientAllFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("p down")}
	secondary := &stubProvider{name: "secondary", err: errors.New("s down")}

	_, err := NewClient(primary, secondary).Lookup(context.Background(), "628123456789")
	if err == nil || !strings.Contains(err.Error(), "s down") {
		t.Fatalf("err = %v, want the last provider's error", err)
	}
}
