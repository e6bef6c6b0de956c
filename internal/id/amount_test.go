package id

import "testing"

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		decimal  string
		decimals int
		want     string
	}{
		{"0.5", 18, "500000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"50", 6, "50000000"},
		{"123.456789", 6, "123456789"},
		{"0.00000001", 8, "1"},
		{"0", 18, "0"},
		{"0.0", 6, "0"},
	}
	for _, tc := range cases {
		got, err := ToBaseUnits(tc.decimal, tc.decimals)
		if err != nil {
			t.Fatalf("ToBaseUnits(%q, %d): %v", tc.decimal, tc.decimals, err)
		}
		if got != tc.want {
			t.Fatalf("ToBaseUnits(%q, %d) = %s, want %s", tc.decimal, tc.decimals, got, tc.want)
		}
	}
}

func TestToBaseUnitsRejectsExcessPrecision(t *testing.T) {
	if _, err := ToBaseUnits("1.2345678", 6); err == nil {
		t.Fatal("expected precision error")
	}
}

func TestToBaseUnitsRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "-1", "1e18", "1,5", "all", "0x10", "1."} {
		if _, err := ToBaseUnits(bad, 18); err == nil {
			t.Fatalf("ToBaseUnits(%q) should fail", bad)
		}
	}
}

func TestFromBaseUnits(t *testing.T) {
	cases := []struct {
		baseUnits string
		decimals  int
		want      string
	}{
		{"500000000000000000", 18, "0.5"},
		{"123456789", 6, "123.456789"},
		{"50000000", 6, "50"},
		{"1", 8, "0.00000001"},
		{"0", 18, "0"},
	}
	for _, tc := range cases {
		if got := FromBaseUnits(tc.baseUnits, tc.decimals); got != tc.want {
			t.Fatalf("FromBaseUnits(%q, %d) = %s, want %s", tc.baseUnits, tc.decimals, got, tc.want)
		}
	}
}

func TestNormalizeDecimal(t *testing.T) {
	cases := map[string]string{
		"0.50":  "0.5",
		"00.5":  "0.5",
		"50":    "50",
		"050":   "50",
		"0.0":   "0",
		"1.230": "1.23",
	}
	for in, want := range cases {
		if got := NormalizeDecimal(in); got != want {
			t.Fatalf("NormalizeDecimal(%q) = %s, want %s", in, got, want)
		}
	}
}
