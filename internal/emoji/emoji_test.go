package emoji

import "testing"

func TestGetEmojiFallback(t *testing.T) {
	defer SetEmojiDisabled(false)

	SetEmojiDisabled(false)
	if got := GetEmoji("success"); got != "✅" {
		t.Errorf("GetEmoji(success) = %q", got)
	}

	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Fatal("expected emoji to be disabled")
	}
	if got := GetEmoji("success"); got != "[OK]" {
		t.Errorf("fallback = %q", got)
	}
	if got := ForTier("high"); got != "[HI]" {
		t.Errorf("ForTier(high) = %q", got)
	}
	if got := GetEmoji("nope"); got != "[?]" {
		t.Errorf("unknown key = %q", got)
	}
}
