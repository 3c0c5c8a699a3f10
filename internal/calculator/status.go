package calculator

import "github.com/mmynk/republica/internal/models"

// BillStatus derives a bill's aggregate status from its shares.
// Pending confirmations do not count as paid.
func BillStatus(statuses []models.PaymentStatus) models.BillStatus {
	paid := 0
	for _, s := range statuses {
		if s == models.PaymentPaid {
			paid++
		}
	}

	switch {
	case paid == 0:
		return models.BillUnpaid
	case paid == len(statuses):
		return models.BillPaid
	default:
		return models.BillPartiallyPaid
	}
}
