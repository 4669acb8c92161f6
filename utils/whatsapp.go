package utils

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// WhatsApp link directions: who the message is addressed to.
const (
	WAToPartner  = "to_partner"
	WAToCustomer = "to_customer"
)

// BuildWALink builds a wa.me deep link preloaded with an order inquiry.
// Phone numbers are normalised to Indonesian international format: digits
// only, leading "0" replaced with "62". Returns "" when no phone is known.
func BuildWALink(phone, orderID, direction string) string {
	if phone == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	p := digits.String()
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "0") {
		p = "62" + p[1:]
	}

	short := orderID
	if len(short) > 6 {
		short = short[:6]
	}

	var text string
	if direction == WAToPartner {
		text = fmt.Sprintf("Halo, saya ingin tanya status pesanan LaundryIn ID: #%s...", short)
	} else {
		text = fmt.Sprintf("Halo Kak, update dari LaundryIn mengenai pesanan ID: #%s.", short)
	}

	return fmt.Sprintf("https://wa.me/%s?text=%s", p, url.QueryEscape(text))
}
