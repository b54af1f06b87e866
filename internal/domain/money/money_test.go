package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFee(t *testing.T) {
	cases := []struct{ gross, want string }{
		{"30000", "450"},
		{"20000", "300"},
		{"100", "1.5"},
		{"0.01", "0"}, // 0.00015 rounds to 0.00
		{"333.33", "5"},
	}
	for _, tc := range cases {
		got := Fee(dec(tc.gross))
		if !got.Equal(dec(tc.want)) {
			t.Errorf("Fee(%s) = %s, want %s", tc.gross, got, tc.want)
		}
	}
}

func TestFeeDeterministic(t *testing.T) {
	// identical inputs must produce byte-identical amounts
	a := Fee(dec("12345.67"))
	b := Fee(dec("12345.67"))
	if a.String() != b.String() {
		t.Fatalf("fee drift: %s vs %s", a, b)
	}
}

func TestPenalty(t *testing.T) {
	if got := Penalty(dec("10000")); !got.Equal(dec("10500")) {
		t.Fatalf("Penalty(10000) = %s, want 10500", got)
	}
	if got := Penalty(dec("333.33")); !got.Equal(dec("350")) {
		t.Fatalf("Penalty(333.33) = %s, want 350.00", got)
	}
}

func TestSplitSumsToNetExactly(t *testing.T) {
	rates := []string{"0.20", "0.10"}
	nets := []string{"29550", "19550", "0.01", "333.37", "1000000.99"}
	for _, r := range rates {
		for _, n := range nets {
			available, vault := Split(dec(n), dec(r))
			if !available.Add(vault).Equal(dec(n)) {
				t.Errorf("Split(%s, %s): %s + %s != net", n, r, available, vault)
			}
			if available.IsNegative() || vault.IsNegative() {
				t.Errorf("Split(%s, %s): negative portion", n, r)
			}
		}
	}
}

func TestSplitBronze(t *testing.T) {
	available, vault := Split(dec("29550"), dec("0.20"))
	if !vault.Equal(dec("5910")) {
		t.Fatalf("vault = %s, want 5910", vault)
	}
	if !available.Equal(dec("23640")) {
		t.Fatalf("available = %s, want 23640", available)
	}
}
