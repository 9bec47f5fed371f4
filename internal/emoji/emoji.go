package emoji

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"skill":      {"🎯", "[SKL]"},
	"evidence":   {"🔍", "[EVD]"},
	"statistics": {"📊", "[STATS]"},
	"radar":      {"📡", "[RDR]"},
	"page":       {"📄", "[PDF]"},
	"xray":       {"🩻", "[XRY]"},
	"rocket":     {"🚀", "[RUN]"},
	"help":       {"❓", "[?]"},
	"brain":      {"🧠", "[AI]"},
	"tag":        {"🏷️", "[TAG]"},
	"door":       {"🚪", "[EXIT]"},
	"number":     {"🔢", "[#]"},
	"watch":      {"👀", "[WAT]"},
	"health":     {"💓", "[HLT]"},
	"high":       {"🟢", "[HI]"},
	"medium":     {"🟡", "[MD]"},
	"low":        {"🔴", "[LO]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForTier returns the marker for a confidence tier name
func ForTier(tier string) string {
	return GetEmoji(tier)
}
