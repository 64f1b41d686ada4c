package mahfaza

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Side identifies the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses a string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", invalidf("order_type", "must be %q or %q, got %q", Buy, Sell, s)
	}
}

// Order is an immutable record of one buy or sell. It is only ever
// changed through an explicit in-place correction (Portfolio.UpdateOrder).
type Order struct {
	ID         string
	Side       Side
	Shares     Quantity
	Price      Money // unit price
	Date       Date
	WalletID   string // optional owning wallet
	Commission Money
	Tax        Money
}

// NewOrder creates an order, computing commission and tax from the fee
// schedule.
func NewOrder(side Side, shares Quantity, price Money, on Date, walletID string, fees FeeSchedule) Order {
	o := Order{
		ID:       newID(),
		Side:     side,
		Shares:   shares,
		Price:    price,
		Date:     on,
		WalletID: walletID,
	}
	f := fees.Fees(o.Notional())
	o.Commission, o.Tax = f.Commission, f.Tax
	return o
}

// NewOrderWithFees creates an order with explicitly stated commission
// and tax, overriding the schedule (brokers occasionally discount).
func NewOrderWithFees(side Side, shares Quantity, price Money, on Date, walletID string, commission, tax Money) Order {
	return Order{
		ID:         newID(),
		Side:       side,
		Shares:     shares,
		Price:      price,
		Date:       on,
		WalletID:   walletID,
		Commission: commission,
		Tax:        tax,
	}
}

func newID() string { return uuid.NewString()[:8] }

// Notional returns quantity times unit price, before fees.
func (o Order) Notional() Money { return o.Price.Mul(o.Shares) }

// TotalFees returns commission plus tax.
func (o Order) TotalFees() Money { return o.Commission.Add(o.Tax) }

// TotalCost returns the cash impact of the order: notional plus fees
// for a buy, notional minus fees for a sell (net proceeds).
func (o Order) TotalCost() Money {
	if o.Side == Buy {
		return o.Notional().Add(o.TotalFees())
	}
	return o.Notional().Sub(o.TotalFees())
}

// Validate rejects a malformed order before it reaches any ledger.
func (o Order) Validate() error {
	if o.Side != Buy && o.Side != Sell {
		return invalidf("order_type", "must be %q or %q, got %q", Buy, Sell, o.Side)
	}
	if !o.Shares.IsPositive() {
		return invalidf("shares", "must be positive, got %s", o.Shares)
	}
	if !o.Price.IsPositive() {
		return invalidf("price", "must be positive, got %s", o.Price.Decimal())
	}
	if o.Date.IsZero() {
		return invalidf("date", "is missing")
	}
	if o.Commission.IsNegative() || o.Tax.IsNegative() {
		return invalidf("fees", "must not be negative")
	}
	return nil
}

// MarshalJSON writes the order with the persisted ledger key order.
func (o Order) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("order_id", o.ID)
	w.Append("order_type", o.Side)
	w.Append("shares", o.Shares)
	w.Append("price", o.Price)
	w.Append("date", o.Date)
	if o.WalletID == "" {
		w.AppendRaw("wallet_id", []byte("null"))
	} else {
		w.Append("wallet_id", o.WalletID)
	}
	w.Append("commission", o.Commission)
	w.Append("tax", o.Tax)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (o *Order) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID         string   `json:"order_id"`
		Side       Side     `json:"order_type"`
		Shares     Quantity `json:"shares"`
		Price      Money    `json:"price"`
		Date       Date     `json:"date"`
		WalletID   *string  `json:"wallet_id"`
		Commission Money    `json:"commission"`
		Tax        Money    `json:"tax"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	o.ID = temp.ID
	o.Side = temp.Side
	o.Shares = temp.Shares
	o.Price = temp.Price
	o.Date = temp.Date
	if temp.WalletID != nil {
		o.WalletID = *temp.WalletID
	}
	o.Commission = temp.Commission
	o.Tax = temp.Tax
	return nil
}
