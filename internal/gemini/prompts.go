package gemini

import "strings"

// modelAttribution is the stock self-attribution phrase the model emits
// when asked who trained it.
const modelAttribution = "تم تدريبي بواسطة جوجل"

// botAttribution replaces the stock phrase so answers credit the bot's
// integration as well.
const botAttribution = "تم تدريبي بواسطة جوجل وتم ربطي في البوت وبرمجتي لاتعامل مع المستخدمين من قبل وهيب الشرعبي"

// NormalizeAttribution rewrites the model's self-attribution phrase in
// generated text. Applied to every reply before it leaves the client.
func NormalizeAttribution(text string) string {
	if !strings.Contains(text, modelAttribution) {
		return text
	}
	return strings.ReplaceAll(text, modelAttribution, botAttribution)
}
