package handler

import (
	"bytes"
	"encoding/json"

	"shopcart/internal/errors"
)

// Price accepts a JSON string or a bare JSON number and keeps its exact text,
// so "9.90" and 9.90 both round-trip as "9.90".
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	text, err := numericText(data)
	if err != nil {
		return errors.Wrap(err, "price must be a string or a number")
	}
	*p = Price(text)

	return nil
}

// Quantity is decoded like Price. Whether the text is a positive integer is
// decided by the cart usecase, which reports it against the item's index.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	text, err := numericText(data)
	if err != nil {
		return errors.Wrap(err, "quantity must be a string or a number")
	}
	*q = Quantity(text)

	return nil
}

func numericText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", errors.WithStack(err)
		}

		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", errors.WithStack(err)
	}

	return n.String(), nil
}
