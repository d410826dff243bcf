package ua

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		browser string
		device  string
		bot     bool
	}{
		{
			raw:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
			browser: "Chrome",
			device:  "Desktop",
		},
		{
			raw:     "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			browser: "Safari",
			device:  "Mobile",
		},
		{
			raw: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			bot: true,
		},
	}
	for _, tc := range tests {
		got := Parse(tc.raw)
		if tc.browser != "" && got.Browser != tc.browser {
			t.Errorf("%s: browser = %q, want %q", tc.raw, got.Browser, tc.browser)
		}
		if tc.device != "" && got.Device != tc.device {
			t.Errorf("%s: device = %q, want %q", tc.raw, got.Device, tc.device)
		}
		if got.IsBot != tc.bot {
			t.Errorf("%s: bot = %v, want %v", tc.raw, got.IsBot, tc.bot)
		}
	}
}
