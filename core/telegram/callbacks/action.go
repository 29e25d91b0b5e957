// Package callbacks defines the colon-delimited callback wire format
// and decodes it into a tagged Action at the transport boundary, so
// handlers switch on a typed value instead of re-splitting strings.
package callbacks

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the Action union.
type Kind int

const (
	KindUnknown Kind = iota
	// KindSelectVariation opens the qty UI: var:<prod>:<var>
	KindSelectVariation
	// KindQty adjusts the pending quantity: qty:<prod>:<var>:<op>
	KindQty
	// KindBuy shows the purchase summary: buy:<prod>:<var>
	KindBuy
	// KindConfirm asks for the destination number: confirm:<prod>:<var>
	KindConfirm
	// KindBackList leaves the purchase flow: back:list
	KindBackList
	// KindBackVariations reopens the variation picker: back:var:<prod>
	KindBackVariations
	// KindDetail is the legacy product detail button: detail:<num>
	KindDetail
	// KindRetryQuota re-runs a quota lookup: cekkuota:retry:<msisdn>
	KindRetryQuota
)

// QtyOp is the quantity adjustment verb.
type QtyOp string

const (
	QtyPlus    QtyOp = "plus"
	QtyMinus   QtyOp = "minus"
	QtyRefresh QtyOp = "refresh"
)

// Action is the decoded form of one callback button press. Only the
// fields relevant to Kind are set.
type Action struct {
	Kind      Kind
	Product   int
	Variation int
	Op        QtyOp
	MSISDN    string
}

// Key returns the routing prefix of raw callback data, used for logs.
func Key(data string) string {
	if idx := strings.IndexByte(data, ':'); idx >= 0 {
		return data[:idx]
	}
	return data
}

// Parse decodes raw callback data. ok is false for empty or malformed
// data; callers answer the callback with a generic toast in that case.
func Parse(data string) (Action, bool) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case "var":
		if p, v, ok := twoInts(parts, 3); ok {
			return Action{Kind: KindSelectVariation, Product: p, Variation: v}, true
		}
	case "qty":
		if len(parts) == 4 {
			if p, v, ok := twoInts(parts[:3], 3); ok {
				switch op := QtyOp(parts[3]); op {
				case QtyPlus, QtyMinus, QtyRefresh:
					return Action{Kind: KindQty, Product: p, Variation: v, Op: op}, true
				}
			}
		}
	case "buy":
		// Legacy menus emitted buy:<num> without a variation.
		if len(parts) == 2 {
			if p, err := strconv.Atoi(parts[1]); err == nil {
				return Action{Kind: KindDetail, Product: p}, true
			}
		}
		if p, v, ok := twoInts(parts, 3); ok {
			return Action{Kind: KindBuy, Product: p, Variation: v}, true
		}
	case "confirm":
		if p, v, ok := twoInts(parts, 3); ok {
			return Action{Kind: KindConfirm, Product: p, Variation: v}, true
		}
	case "back":
		switch {
		case len(parts) == 2 && parts[1] == "list":
			return Action{Kind: KindBackList}, true
		case len(parts) == 3 && parts[1] == "var":
			if p, err := strconv.Atoi(parts[2]); err == nil {
				return Action{Kind: KindBackVariations, Product: p}, true
			}
		}
	case "detail":
		if len(parts) == 2 {
			if p, err := strconv.Atoi(parts[1]); err == nil {
				return Action{Kind: KindDetail, Product: p}, true
			}
		}
	case "cekkuota":
		if len(parts) == 3 && parts[1] == "retry" && parts[2] != "" {
			return Action{Kind: KindRetryQuota, MSISDN: parts[2]}, true
		}
	}
	return Action{}, false
}

func twoInts(parts []string, want int) (int, int, bool) {
	if len(parts) != want {
		return 0, 0, false
	}
	a, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Wire builders. Keyboards must emit exactly these strings so old
// messages keep working after restarts.

func VarData(prod, variation int) string { return fmt.Sprintf("var:%d:%d", prod, variation) }

func QtyData(prod, variation int, op QtyOp) string {
	return fmt.Sprintf("qty:%d:%d:%s", prod, variation, op)
}

func BuyData(prod, variation int) string { return fmt.Sprintf("buy:%d:%d", prod, variation) }

func ConfirmData(prod, variation int) string { return fmt.Sprintf("confirm:%d:%d", prod, variation) }

func BackListData() string { return "back:list" }

func BackVarData(prod int) string { return fmt.Sprintf("back:var:%d", prod) }

func DetailData(num int) string { return fmt.Sprintf("detail:%d", num) }

func RetryData(msisdn string) string { return "cekkuota:retry:" + msisdn }
