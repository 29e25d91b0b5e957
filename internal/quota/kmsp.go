package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/lastsymphony/kuotabot/core/telegram/format"
)

// KMSP is the fallback quota provider. It answers with a structured
// subscriber block plus a legacy HTML blob listing the quota details,
// which has to be scraped line by line.
type KMSP struct {
	client     *http.Client
	baseURL    string
	auth       string
	apiKey     string
	appVersion string
	timeout    time.Duration
}

// KMSPOptions carries the credentials the gateway expects on every call.
type KMSPOptions struct {
	BaseURL    string
	Auth       string
	APIKey     string
	AppVersion string
	Timeout    time.Duration
}

// NewKMSP builds the KMSP provider.
func NewKMSP(client *http.Client, opts KMSPOptions) *KMSP {
	return &KMSP{
		client:     client,
		baseURL:    opts.BaseURL,
		auth:       opts.Auth,
		apiKey:     opts.APIKey,
		appVersion: opts.AppVersion,
		timeout:    opts.Timeout,
	}
}

func (k *KMSP) Name() string { return "kmsp" }

type kmspResponse struct {
	Status bool     `json:"status"`
	Data   kmspData `json:"data"`
}

type kmspData struct {
	DataSP kmspDataSP `json:"data_sp"`
	Hasil  string     `json:"hasil"`
}

type kmspDataSP struct {
	Prefix       kmspValue `json:"prefix"`
	ActivePeriod kmspValue `json:"active_period"`
	GracePeriod  kmspValue `json:"grace_period"`
	Status4G     kmspValue `json:"status_4g"`
	Dukcapil     kmspValue `json:"dukcapil"`
	ActiveCard   kmspValue `json:"active_card"`
	VolteDevice  kmspValue `json:"volte_device"`
	VolteArea    kmspValue `json:"volte_area"`
	VolteSimcard kmspValue `json:"volte_simcard"`
}

type kmspValue struct {
	Value string `json:"value"`
}

// Lookup queries the gateway. A status=false answer means the gateway
// does not know the number, which is terminal for the whole chain.
func (k *KMSP) Lookup(ctx context.Context, msisdn string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?msisdn=%s&isJSON=true", k.baseURL, url.QueryEscape(msisdn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", k.auth)
	req.Header.Set("X-API-Key", k.apiKey)
	req.Header.Set("X-App-Version", k.appVersion)

	resp, err := k.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body kmspResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if !body.Status {
		return "", ErrNotFound
	}

	return renderKMSP(msisdn, &body), nil
}

func renderKMSP(msisdn string, res *kmspResponse) string {
	sp := res.Data.DataSP
	operator := format.EscapeHTMLOr(sp.Prefix.Value, "-")
	volteDevice := format.EscapeHTMLOr(sp.VolteDevice.Value, "-")
	volteArea := format.EscapeHTMLOr(sp.VolteArea.Value, "-")
	volteSimcard := format.EscapeHTMLOr(sp.VolteSimcard.Value, "-")

	var t strings.Builder
	fmt.Fprintf(&t, "<b>✅ Cek Kuota %s</b>\n", operator)
	fmt.Fprintf(&t, "📱 <b>Nomor:</b> <code>%s</code>\n", msisdn)
	fmt.Fprintf(&t, "💳 <b>Operator:</b> %s\n", operator)
	fmt.Fprintf(&t, "📶 <b>Status 4G:</b> %s\n", format.EscapeHTMLOr(sp.Status4G.Value, "-"))
	fmt.Fprintf(&t, "🧾 <b>Dukcapil:</b> %s\n", format.EscapeHTMLOr(sp.Dukcapil.Value, "-"))
	fmt.Fprintf(&t, "📅 <b>Umur Kartu:</b> %s\n", format.EscapeHTMLOr(sp.ActiveCard.Value, "-"))
	fmt.Fprintf(&t, "⏰ <b>Masa Aktif:</b> %s\n", format.EscapeHTMLOr(sp.ActivePeriod.Value, "-"))
	fmt.Fprintf(&t, "⚠️ <b>Masa Tenggang:</b> %s\n\n", format.EscapeHTMLOr(sp.GracePeriod.Value, "-"))

	if volteDevice != "-" || volteArea != "-" || volteSimcard != "-" {
		t.WriteString("<b>📞 Status VoLTE:</b>\n")
		if volteDevice != "-" {
			fmt.Fprintf(&t, "  • Device: %s\n", volteDevice)
		}
		if volteArea != "-" {
			fmt.Fprintf(&t, "  • Area: %s\n", volteArea)
		}
		if volteSimcard != "-" {
			fmt.Fprintf(&t, "  • Simcard: %s\n", volteSimcard)
		}
		t.WriteString("\n")
	}

	if res.Data.Hasil == "" {
		t.WriteString("❌ <i>Tidak ada info kuota.</i>")
		return t.String()
	}

	t.WriteString("<b>📊 Detail Kuota:</b>\n")
	for _, section := range splitQuotaSections(cleanHasil(res.Data.Hasil)) {
		name, total, sisa, exp := parseQuotaSection(section)
		if name == "" {
			continue
		}
		fmt.Fprintf(&t, "\n📦 <b>%s</b>", format.EscapeHTML(name))
		if exp != "" {
			fmt.Fprintf(&t, " — <i>Exp: %s</i>\n", format.EscapeHTML(exp))
		}
		switch {
		case total != "" && sisa != "":
			bar := ProgressBar(ParseSize(sisa), ParseSize(total))
			fmt.Fprintf(&t, "  • <b>Kuota:</b> %s / %s\n  • <code>[%s]</code>\n",
				format.EscapeHTML(sisa), format.EscapeHTML(total), bar)
		case total != "":
			fmt.Fprintf(&t, "  • <b>Kuota:</b> %s\n", format.EscapeHTML(total))
		}
	}
	return t.String()
}

var (
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
	equalsRuns = regexp.MustCompile(`=+`)
)

// cleanHasil strips the markup the gateway embeds in the hasil blob so
// the section parser sees plain lines.
func cleanHasil(raw string) string {
	s := brTag.ReplaceAllString(raw, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return equalsRuns.ReplaceAllString(s, "")
}

// quota sections start at a "🎁 Quota:" or "🎁 Benefit:" heading
const (
	markerQuota   = "🎁 Quota:"
	markerBenefit = "🎁 Benefit:"
)

// splitQuotaSections cuts the blob at each section heading, keeping
// the heading with its section.
func splitQuotaSections(s string) []string {
	var starts []int
	for i := 0; i < len(s); {
		next := len(s)
		for _, marker := range []string{markerQuota, markerBenefit} {
			if idx := strings.Index(s[i:], marker); idx >= 0 && i+idx < next {
				next = i + idx
			}
		}
		if next == len(s) {
			break
		}
		starts = append(starts, next)
		i = next + 1
	}

	if len(starts) == 0 {
		return []string{s}
	}
	var sections []string
	if starts[0] > 0 {
		sections = append(sections, s[:starts[0]])
	}
	for i, start := range starts {
		end := len(s)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		sections = append(sections, s[start:end])
	}
	return sections
}

func parseQuotaSection(section string) (name, total, sisa, exp string) {
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		switch {
		case strings.Contains(ln, markerQuota):
			name = strings.TrimSpace(trimAfter(ln, markerQuota))
		case strings.Contains(ln, markerBenefit):
			name = strings.TrimSpace(trimAfter(ln, markerBenefit))
		case strings.Contains(ln, "🎁 Kuota:"):
			total = strings.TrimSpace(trimAfter(ln, "🎁 Kuota:"))
		case strings.Contains(ln, "🌲 Sisa Kuota:"):
			sisa = strings.TrimSpace(trimAfter(ln, "🌲 Sisa Kuota:"))
		case strings.Contains(ln, "🍂 Aktif Hingga:"):
			exp = strings.TrimSpace(trimAfter(ln, "🍂 Aktif Hingga:"))
		}
	}
	return name, total, sisa, exp
}

func trimAfter(line, marker string) string {
	if idx := strings.Index(line, marker); idx >= 0 {
		return line[idx+len(marker):]
	}
	return line
}
