package scapeid

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"xor":              "xor",
		"XOR":              "xor",
		"xor_sim":          "xor",
		"scape_xor_sim":    "xor",
		"regression_mimic": "regression-mimic",
		"Regression Mimic": "regression-mimic",
		"cart_pole_lite":   "cart-pole-lite",
		"scape_cart_pole":  "cart-pole",
		"  -xor-  ":        "xor",
		"scape":            "scape",
		"sim":              "sim",
		"":                 "",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	names := []string{"cart-pole-lite", "regression-mimic", "xor"}
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"xor", "xor", true},
		{"scape_xor_sim", "xor", true},
		{"cartpolelite", "cart-pole-lite", true},
		{"RegressionMimic", "regression-mimic", true},
		{"regression_mimic", "regression-mimic", true},
		{"flatland", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Match(tc.in, names)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("match(%q)=(%q,%t) want=(%q,%t)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
