package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/republica/internal/models"
)

func sum(shares []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s)
	}
	return total
}

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		n       int
		want    []string
		wantErr bool
	}{
		{
			name:  "even three-way split",
			total: "120.00",
			n:     3,
			want:  []string{"40.00", "40.00", "40.00"},
		},
		{
			name:  "remainder cent goes to the first participant",
			total: "100.00",
			n:     3,
			want:  []string{"33.34", "33.33", "33.33"},
		},
		{
			name:  "two leftover cents",
			total: "10.00",
			n:     3,
			want:  []string{"3.34", "3.33", "3.33"},
		},
		{
			name:  "single participant owes everything",
			total: "57.89",
			n:     1,
			want:  []string{"57.89"},
		},
		{
			name:  "more participants than cents",
			total: "0.02",
			n:     4,
			want:  []string{"0.01", "0.01", "0.00", "0.00"},
		},
		{
			name:    "no participants",
			total:   "10.00",
			n:       0,
			wantErr: true,
		},
		{
			name:    "negative total",
			total:   "-1.00",
			n:       2,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			shares, err := EqualShares(total, tt.n)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, shares, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, shares[i].StringFixed(2), "share %d", i)
			}
			assert.True(t, sum(shares).Equal(total), "shares sum to %s, want %s", sum(shares), total)
		})
	}
}

func TestEqualSharesAlwaysSumsToTotal(t *testing.T) {
	for cents := int64(0); cents <= 1000; cents += 7 {
		total := decimal.New(cents, -2)
		for n := 1; n <= 9; n++ {
			shares, err := EqualShares(total, n)
			require.NoError(t, err)
			require.True(t, sum(shares).Equal(total), "total=%s n=%d", total, n)
		}
	}
}

func TestBillStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.PaymentStatus
		want     models.BillStatus
	}{
		{"no shares", nil, models.BillUnpaid},
		{"all unpaid", []models.PaymentStatus{models.PaymentUnpaid, models.PaymentUnpaid}, models.BillUnpaid},
		{"pending is not paid", []models.PaymentStatus{models.PaymentPendingConfirmation, models.PaymentUnpaid}, models.BillUnpaid},
		{"some paid", []models.PaymentStatus{models.PaymentPaid, models.PaymentPendingConfirmation}, models.BillPartiallyPaid},
		{"all paid", []models.PaymentStatus{models.PaymentPaid, models.PaymentPaid}, models.BillPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BillStatus(tt.statuses))
		})
	}
}
