// Package util holds small shared helpers.
package util

// MaskPhone obscures a phone number for logging, keeping only the leading
// and trailing digits.
func MaskPhone(phone string) string {
	if len(phone) > 7 {
		return phone[:3] + "****" + phone[len(phone)-2:]
	}
	if len(phone) > 2 {
		return phone[:1] + "****"
	}
	return "****"
}

// MaskCardID obscures a card identifier for logging, showing only the first
// and last few characters.
func MaskCardID(cardID string) string {
	if len(cardID) > 8 {
		return cardID[:4] + "..." + cardID[len(cardID)-4:]
	}
	if len(cardID) > 4 {
		return cardID[:2] + "..." + cardID[len(cardID)-2:]
	}
	return cardID
}
