package splitter

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tripfolio/tripfolio/internal/apperr"
	"github.com/tripfolio/tripfolio/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeEqual(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		want         []string // expected per-participant amounts, input order
		wantErr      bool
	}{
		{
			name:         "evenly divisible",
			amount:       "100.00",
			participants: []string{"u1", "u2"},
			want:         []string{"50.00", "50.00"},
		},
		{
			name:         "first participant absorbs the remainder",
			amount:       "10.00",
			participants: []string{"u1", "u2", "u3"},
			want:         []string{"3.34", "3.33", "3.33"},
		},
		{
			// 10.00 / 6: per-share rounds up to 1.67, so the first
			// participant's remainder share rounds down to 1.65.
			name:         "remainder can shrink the first share",
			amount:       "10.00",
			participants: []string{"u1", "u2", "u3", "u4", "u5", "u6"},
			want:         []string{"1.65", "1.67", "1.67", "1.67", "1.67", "1.67"},
		},
		{
			name:         "single participant gets everything",
			amount:       "42.17",
			participants: []string{"u1"},
			want:         []string{"42.17"},
		},
		{
			name:         "no participants",
			amount:       "10.00",
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "zero amount",
			amount:       "0.00",
			participants: []string{"u1"},
			wantErr:      true,
		},
		{
			name:         "negative amount",
			amount:       "-5.00",
			participants: []string{"u1"},
			wantErr:      true,
		},
		{
			name:         "duplicate participant",
			amount:       "10.00",
			participants: []string{"u1", "u1"},
			wantErr:      true,
		},
		{
			name:         "too many decimal places",
			amount:       "10.005",
			participants: []string{"u1"},
			wantErr:      true,
		},
		{
			name:         "amount too small to split",
			amount:       "0.01",
			participants: []string{"u1", "u2", "u3"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.amount), models.SplitEqual, tt.participants, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.KindInvalid {
					t.Errorf("error kind = %v, want KindInvalid", apperr.KindOf(err))
				}
				return
			}
			assertShares(t, shares, tt.participants, tt.want)
			assertSum(t, shares, dec(tt.amount))
		})
	}
}

// Equal splits must reconcile exactly with the amount, whatever n is.
func TestComputeEqualSumProperty(t *testing.T) {
	amounts := []string{"0.10", "1.00", "9.99", "10.00", "33.33", "100.01", "1234.56"}
	for _, a := range amounts {
		for n := 1; n <= 9; n++ {
			participants := make([]string, n)
			for i := range participants {
				participants[i] = string(rune('a' + i))
			}
			shares, err := Compute(dec(a), models.SplitEqual, participants, nil)
			if err != nil {
				continue // amounts too small to split n ways are rejected
			}
			assertSum(t, shares, dec(a))
		}
	}
}

func TestComputeManual(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		values       map[string]decimal.Decimal
		want         []string
		wantErr      bool
	}{
		{
			name:         "amounts reconcile",
			amount:       "30.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("12.50"), "u2": dec("17.50")},
			want:         []string{"12.50", "17.50"},
		},
		{
			name:         "sum mismatch",
			amount:       "30.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("10.00"), "u2": dec("10.00")},
			wantErr:      true,
		},
		{
			name:         "missing participant amount",
			amount:       "30.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("30.00")},
			wantErr:      true,
		},
		{
			name:         "non-positive share",
			amount:       "30.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("30.00"), "u2": dec("0.00")},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.amount), models.SplitManual, tt.participants, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assertShares(t, shares, tt.participants, tt.want)
			assertSum(t, shares, dec(tt.amount))
		})
	}
}

func TestComputePercentage(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		values       map[string]decimal.Decimal
		want         []string
		wantErr      bool
	}{
		{
			name:         "clean percentages",
			amount:       "200.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("75"), "u2": dec("25")},
			want:         []string{"150.00", "50.00"},
		},
		{
			name:         "remainder goes to the first participant",
			amount:       "100.00",
			participants: []string{"u1", "u2", "u3"},
			values: map[string]decimal.Decimal{
				"u1": dec("33.33"), "u2": dec("33.33"), "u3": dec("33.34"),
			},
			// u2: 33.33, u3: 33.34, u1 takes 100.00 - 66.67 = 33.33
			want: []string{"33.33", "33.33", "33.34"},
		},
		{
			name:         "does not total 100",
			amount:       "100.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("50"), "u2": dec("40")},
			wantErr:      true,
		},
		{
			name:         "percentage out of range",
			amount:       "100.00",
			participants: []string{"u1", "u2"},
			values:       map[string]decimal.Decimal{"u1": dec("101"), "u2": dec("-1")},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.amount), models.SplitPercentage, tt.participants, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assertShares(t, shares, tt.participants, tt.want)
			assertSum(t, shares, dec(tt.amount))
			for _, s := range shares {
				if s.Percentage == nil {
					t.Errorf("share for %s has no percentage", s.ParticipantID)
				}
			}
		})
	}
}

func TestComputeCustomRejected(t *testing.T) {
	_, err := Compute(dec("10.00"), models.SplitCustom, []string{"u1"}, nil)
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Fatalf("Compute(CUSTOM) error = %v, want KindInvalid", err)
	}
}

func assertShares(t *testing.T, shares []Share, participants, want []string) {
	t.Helper()
	if len(shares) != len(want) {
		t.Fatalf("got %d shares, want %d", len(shares), len(want))
	}
	for i, s := range shares {
		if s.ParticipantID != participants[i] {
			t.Errorf("share %d participant = %s, want %s (input order must be preserved)", i, s.ParticipantID, participants[i])
		}
		if !s.Amount.Equal(dec(want[i])) {
			t.Errorf("share %d amount = %s, want %s", i, s.Amount, want[i])
		}
	}
}

func assertSum(t *testing.T, shares []Share, amount decimal.Decimal) {
	t.Helper()
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(amount) {
		t.Errorf("shares sum to %s, want %s", sum, amount)
	}
}
