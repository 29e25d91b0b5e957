package callbacks

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		data string
		want Action
	}{
		{VarData(1, 2), Action{Kind: KindSelectVariation, Product: 1, Variation: 2}},
		{QtyData(3, 1, QtyPlus), Action{Kind: KindQty, Product: 3, Variation: 1, Op: QtyPlus}},
		{QtyData(3, 1, QtyMinus), Action{Kind: KindQty, Product: 3, Variation: 1, Op: QtyMinus}},
		{QtyData(3, 1, QtyRefresh), Action{Kind: KindQty, Product: 3, Variation: 1, Op: QtyRefresh}},
		{BuyData(2, 4), Action{Kind: KindBuy, Product: 2, Variation: 4}},
		{ConfirmData(2, 4), Action{Kind: KindConfirm, Product: 2, Variation: 4}},
		{BackListData(), Action{Kind: KindBackList}},
		{BackVarData(7), Action{Kind: KindBackVariations, Product: 7}},
		{DetailData(5), Action{Kind: KindDetail, Product: 5}},
		{"buy:5", Action{Kind: KindDetail, Product: 5}},
		{RetryData("628123456789"), Action{Kind: KindRetryQuota, MSISDN: "628123456789"}},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.data)
		if !ok {
			t.Fatalf("Parse(%q) not ok", tc.data)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.data, got, tc.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"nope",
		"var:1",
		"var:1:2:3",
		"var:x:2",
		"qty:1:2",
		"qty:1:2:double",
		"buy:x",
		"confirm:1",
		"back",
		"back:nowhere",
		"back:var:x",
		"detail:abc",
		"cekkuota:retry:",
		"cekkuota:again:628",
	}
	for _, data := range cases {
		if got, ok := Parse(data); ok {
			t.Fatalf("Parse(%q) = %+v, want reject", data, got)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("qty:1:2:plus"); got != "qty" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key("plain"); got != "plain" {
		t.Fatalf("Key = %q", got)
	}
}
