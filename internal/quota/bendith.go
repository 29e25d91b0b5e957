package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lastsymphony/kuotabot/core/telegram/format"
)

// Bendith is the primary quota provider. It exposes a plain GET
// endpoint and returns structured package data.
type Bendith struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewBendith builds the Bendith provider. baseURL points at the
// end.php endpoint; timeout bounds a single lookup.
func NewBendith(client *http.Client, baseURL string, timeout time.Duration) *Bendith {
	return &Bendith{client: client, baseURL: baseURL, timeout: timeout}
}

func (b *Bendith) Name() string { return "bendith" }

type bendithResponse struct {
	Success bool        `json:"success"`
	Data    bendithData `json:"data"`
}

type bendithData struct {
	SubsInfo    *bendithSubsInfo `json:"subs_info"`
	PackageInfo bendithPkgInfo   `json:"package_info"`
}

type bendithSubsInfo struct {
	Operator   string        `json:"operator"`
	IDVerified string        `json:"id_verified"`
	NetType    string        `json:"net_type"`
	ExpDate    string        `json:"exp_date"`
	GraceUntil string        `json:"grace_until"`
	Tenure     string        `json:"tenure"`
	Volte      *bendithVolte `json:"volte"`
}

type bendithVolte struct {
	Device  bool `json:"device"`
	Area    bool `json:"area"`
	Simcard bool `json:"simcard"`
}

type bendithPkgInfo struct {
	Packages []bendithPackage `json:"packages"`
}

type bendithPackage struct {
	Name   string         `json:"name"`
	Expiry string         `json:"expiry"`
	Quotas []bendithQuota `json:"quotas"`
}

type bendithQuota struct {
	Name      string   `json:"name"`
	Total     string   `json:"total"`
	Remaining string   `json:"remaining"`
	Percent   *float64 `json:"percent"`
}

// Lookup queries the endpoint and renders the report. A response
// without subscriber info counts as a failure so the caller can fall
// back to the secondary provider.
func (b *Bendith) Lookup(ctx context.Context, msisdn string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?check=package&number=%s&version=2", b.baseURL, url.QueryEscape(msisdn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body bendithResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if !body.Success || body.Data.SubsInfo == nil {
		return "", fmt.Errorf("no subscriber info for number")
	}

	return renderBendith(msisdn, &body), nil
}

func renderBendith(msisdn string, res *bendithResponse) string {
	info := res.Data.SubsInfo
	operator := format.EscapeHTMLOr(info.Operator, "XL")

	var t strings.Builder
	fmt.Fprintf(&t, "<b>✅ Cek Kuota %s</b>\n", operator)
	fmt.Fprintf(&t, "📱 <b>Nomor:</b> <code>%s</code>\n", msisdn)
	fmt.Fprintf(&t, "💳 <b>Operator:</b> %s\n", operator)
	fmt.Fprintf(&t, "🧾 <b>ID Verifikasi:</b> %s\n", format.EscapeHTMLOr(info.IDVerified, "-"))
	fmt.Fprintf(&t, "📶 <b>Jaringan:</b> %s\n", format.EscapeHTMLOr(info.NetType, "-"))
	fmt.Fprintf(&t, "📅 <b>Masa Aktif:</b> %s\n", format.EscapeHTMLOr(info.ExpDate, "-"))
	fmt.Fprintf(&t, "⚠️ <b>Masa Tenggang:</b> %s\n", format.EscapeHTMLOr(info.GraceUntil, "-"))
	fmt.Fprintf(&t, "⏳ <b>Umur Kartu:</b> %s\n\n", format.EscapeHTMLOr(info.Tenure, "-"))

	if info.Volte != nil {
		t.WriteString("<b>📞 Status VoLTE:</b>\n")
		fmt.Fprintf(&t, "  • Device: %s\n", yesNo(info.Volte.Device))
		fmt.Fprintf(&t, "  • Area: %s\n", yesNo(info.Volte.Area))
		fmt.Fprintf(&t, "  • Simcard: %s\n\n", yesNo(info.Volte.Simcard))
	}

	pkgs := res.Data.PackageInfo.Packages
	if len(pkgs) == 0 {
		t.WriteString("❌ <i>Tidak ada info paket.</i>")
		return t.String()
	}

	t.WriteString("<b>📊 Detail Paket:</b>\n")
	for _, p := range pkgs {
		fmt.Fprintf(&t, "\n📦 <b>%s</b> — <i>Exp: %s</i>\n",
			format.EscapeHTMLOr(p.Name, "-"), format.EscapeHTMLOr(p.Expiry, "-"))

		for _, q := range p.Quotas {
			totalBytes := ParseSize(q.Total)
			remainBytes := ParseSize(q.Remaining)
			var bar string
			if totalBytes > 0 && remainBytes > 0 {
				bar = ProgressBar(remainBytes, totalBytes)
			}

			fmt.Fprintf(&t, "  • <b>%s</b>\n", format.EscapeHTMLOr(q.Name, "-"))
			fmt.Fprintf(&t, "     %s / %s\n",
				format.EscapeHTMLOr(q.Remaining, "-"), format.EscapeHTMLOr(q.Total, "-"))
			switch {
			case bar != "":
				fmt.Fprintf(&t, "     <code>[%s]</code>\n", bar)
			case q.Percent != nil:
				fmt.Fprintf(&t, "     ⏳ %g%%\n", *q.Percent)
			}
		}
	}
	return t.String()
}

func yesNo(v bool) string {
	if v {
		return "Ya"
	}
	return "Tidak"
}
