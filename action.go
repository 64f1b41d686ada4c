package mahfaza

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ActionKind identifies the type of a corporate action.
type ActionKind string

const (
	BonusIssue   ActionKind = "bonus"
	StockSplit   ActionKind = "split"
	ReverseSplit ActionKind = "reverse_split"
)

// ParseActionKind parses a string into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case BonusIssue:
		return BonusIssue, nil
	case StockSplit:
		return StockSplit, nil
	case ReverseSplit:
		return ReverseSplit, nil
	default:
		return "", invalidf("action_type", "must be %q, %q or %q, got %q", BonusIssue, StockSplit, ReverseSplit, s)
	}
}

// CorporateAction is a share-count adjustment announced by the issuer.
// Ratios are stated the way the exchange announces them:
//
//	bonus n:d          n free shares for every d held
//	split n:d          every d shares become n
//	reverse_split n:d  every n shares become d
//
// Actions scale share counts. They never touch the cost invested, so
// the average cost per share moves inversely to the multiplier.
type CorporateAction struct {
	ID          string
	Kind        ActionKind
	Date        Date
	RatioNum    int64
	RatioDen    int64
	Description string
}

// NewCorporateAction creates a corporate action after validating the ratio.
func NewCorporateAction(kind ActionKind, on Date, num, den int64) (CorporateAction, error) {
	if num <= 0 || den <= 0 {
		return CorporateAction{}, invalidf("ratio", "terms must be positive, got %d:%d", num, den)
	}
	if on.IsZero() {
		return CorporateAction{}, invalidf("date", "is missing")
	}
	if _, err := ParseActionKind(string(kind)); err != nil {
		return CorporateAction{}, err
	}
	return CorporateAction{ID: newID(), Kind: kind, Date: on, RatioNum: num, RatioDen: den}, nil
}

// Multiplier returns the factor existing share counts are scaled by.
func (a CorporateAction) Multiplier() decimal.Decimal {
	num := decimal.NewFromInt(a.RatioNum)
	den := decimal.NewFromInt(a.RatioDen)
	switch a.Kind {
	case BonusIssue:
		// d shares become d+n.
		return num.Add(den).Div(den)
	case ReverseSplit:
		return den.Div(num)
	default: // StockSplit
		return num.Div(den)
	}
}

// MultiplierAsOf returns the cumulative share multiplier of all actions
// in the list dated on or before the cutoff. It is computed fresh on
// every call; adjusted views never cache it.
func MultiplierAsOf(actions []CorporateAction, cutoff Date) decimal.Decimal {
	m := decimal.NewFromInt(1)
	for _, a := range actions {
		if !a.Date.After(cutoff) {
			m = m.Mul(a.Multiplier())
		}
	}
	return m
}

// MarshalJSON implements the json.Marshaler interface.
func (a CorporateAction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("action_id", a.ID)
	w.Append("action_type", a.Kind)
	w.Append("date", a.Date)
	w.Append("ratio_numerator", a.RatioNum)
	w.Append("ratio_denominator", a.RatioDen)
	w.Append("description", a.Description)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *CorporateAction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          string     `json:"action_id"`
		Kind        ActionKind `json:"action_type"`
		Date        Date       `json:"date"`
		RatioNum    int64      `json:"ratio_numerator"`
		RatioDen    int64      `json:"ratio_denominator"`
		Description string     `json:"description"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	a.ID = temp.ID
	a.Kind = temp.Kind
	a.Date = temp.Date
	a.RatioNum = temp.RatioNum
	a.RatioDen = temp.RatioDen
	a.Description = temp.Description
	return nil
}
