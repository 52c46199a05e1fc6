package model

import "encoding/json"

// Amounts are written as plain JSON numbers so the persisted shape stays
// readable by older builds. Decoding accepts numbers and numeric strings.

// MarshalJSON implements json.Marshaler.
func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	return json.Marshal(struct {
		plain
		InitialBalance json.Number `json:"initialBalance"`
	}{plain(a), json.Number(a.InitialBalance.String())})
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(t), json.Number(t.Amount.String())})
}
