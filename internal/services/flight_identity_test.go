package services

import "testing"

func TestResolveFlightIdentity(t *testing.T) {
	cases := []struct {
		airline, number string
		want            FlightIdentity
	}{
		{"AV", "43", FlightIdentity{"AV", "43", "AV43"}},
		{"AV", "AV43", FlightIdentity{"AV", "43", "AV43"}},
		{" av ", "av43", FlightIdentity{"AV", "43", "AV43"}},
		{"UA", "200", FlightIdentity{"UA", "200", "UA200"}},
		// prefix is stripped once only
		{"AA", "AAAA1", FlightIdentity{"AA", "AA1", "AAAA1"}},
		{"", "43", FlightIdentity{"", "43", "43"}},
	}

	for _, tc := range cases {
		got := ResolveFlightIdentity(tc.airline, tc.number)
		if got != tc.want {
			t.Errorf("ResolveFlightIdentity(%q, %q) = %+v, want %+v", tc.airline, tc.number, got, tc.want)
		}
	}
}

func TestResolveFlightIdentity_PrefixedAndBareAgree(t *testing.T) {
	for _, n := range []string{"1", "43", "100", "2100"} {
		bare := ResolveFlightIdentity("DL", n)
		prefixed := ResolveFlightIdentity("DL", "DL"+n)
		if bare != prefixed {
			t.Errorf("expected %+v == %+v", bare, prefixed)
		}
	}
}

func TestSplitFlightIata(t *testing.T) {
	got := SplitFlightIata("av43")
	if got.AirlineIata != "AV" || got.FlightNumber != "43" || got.FlightIata != "AV43" {
		t.Errorf("unexpected split %+v", got)
	}

	if got := SplitFlightIata("AV"); got.FlightNumber != "" {
		t.Errorf("expected no flight number, got %+v", got)
	}
}

func TestNormalizeFlightDate(t *testing.T) {
	cases := map[string]string{
		"2025-03-26":   "2025-03-26",
		"26/03/2025":   "2025-03-26",
		" 26/03/2025 ": "2025-03-26",
		"31/02/2025":   "2025-02-31",
		"26/03":        "26/03",
		"":             "",
	}
	for in, want := range cases {
		if got := NormalizeFlightDate(in); got != want {
			t.Errorf("NormalizeFlightDate(%q) = %q, want %q", in, got, want)
		}
	}
}
