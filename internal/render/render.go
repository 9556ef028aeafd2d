// Package render builds the HTML texts and inline keyboards the bot sends.
// Everything here is a pure function of the channel list, a membership
// result and the website URL.
package render

import (
	"html"
	"net/url"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/verifier"
)

// CheckCallbackData is the callback payload of the re-check button.
const CheckCallbackData = "check_subscription"

// Button captions.
const (
	CheckButtonText = "🔄 Tekshirish"
	StartTestText   = "🚀 Testni boshlash"
	OpenWebsiteText = "🌐 Saytni ochish"
	joinedMark      = "✅"
	notJoinedMark   = "❌"
	listBullet      = "• "
)

// Callback acknowledgements.
const (
	AckChecking  = "Tekshirilmoqda..."
	AckUnchanged = "Holat o'zgarmadi."
	AckError     = "Xatolik yuz berdi. Qayta urinib ko'ring."
	AckSlowDown  = "Iltimos, biroz kuting..."
)

// StartText greets the user and explains the steps.
func StartText() string {
	return strings.Join([]string{
		"<b>✨ Xush kelibsiz!</b>",
		"",
		"<pre>╔════════════════════════════╗",
		"║   OBUNA TEKSHIRUV BOTI    ║",
		"╚════════════════════════════╝</pre>",
		"<b>Imtihonni boshlash uchun:</b>",
		"1. Quyidagi kanallarga obuna bo'ling",
		"2. So'ng <b>Tekshirish</b> tugmasini bosing",
	}, "\n")
}

// SiteCardText announces that the test can be started.
func SiteCardText() string {
	return strings.Join([]string{
		"<b>🎯 Testga kirish tayyor</b>",
		"",
		"Barcha kanallarga obunangiz tasdiqlandi.",
		"Davom etish uchun pastdagi <b>Testni boshlash</b> tugmasini bosing.",
	}, "\n")
}

// FailText lists the channels the user still has to join.
func FailText(notJoined []config.Channel) string {
	lines := []string{
		"<b>⚠️ Hali obuna bo'lmagan kanallar:</b>",
		"",
	}
	for _, ch := range notJoined {
		lines = append(lines, listBullet+html.EscapeString(ch.Name))
	}
	lines = append(lines,
		"",
		"Obuna bo'lib, qayta <b>Tekshirish</b> tugmasini bosing.",
	)
	return strings.Join(lines, "\n")
}

// SuccessText congratulates the user and repeats the site card.
func SuccessText() string {
	return strings.Join([]string{
		"<b>✅ Tabriklaymiz, hammasi tayyor!</b>",
		"",
		"Siz barcha kanallarga muvaffaqiyatli obuna bo'ldingiz.",
		"",
		SiteCardText(),
	}, "\n")
}

// JoinedText replaces the checklist message once every channel is joined.
func JoinedText() string {
	return strings.Join([]string{
		"<b>✅ Obuna tasdiqlandi</b>",
		"",
		"Barcha kanallar tekshirildi. Pastda test uchun yangi xabar yuborildi.",
	}, "\n")
}

// ChannelKeyboard has one URL button per channel, marked by its result,
// followed by the re-check button. A nil or short result marks the missing
// channels as not joined.
func ChannelKeyboard(channels []config.Channel, results verifier.Result) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(channels)+1)
	for i, ch := range channels {
		mark := notJoinedMark
		if i < len(results) && results[i] {
			mark = joinedMark
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: mark + " " + ch.Name, URL: ch.URL}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: CheckButtonText, CallbackData: CheckCallbackData}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// SuccessKeyboard holds the single button that opens the website.
func SuccessKeyboard(websiteURL string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{WebsiteButton(StartTestText, websiteURL)}},
	}
}

// WebsiteButton opens websiteURL as a Telegram web app. Web apps require
// https, so any other URL gets a plain link button.
func WebsiteButton(text, websiteURL string) models.InlineKeyboardButton {
	if text == "" {
		text = OpenWebsiteText
	}
	if u, err := url.Parse(websiteURL); err == nil && strings.EqualFold(u.Scheme, "https") {
		return models.InlineKeyboardButton{Text: text, WebApp: &models.WebAppInfo{URL: websiteURL}}
	}
	return models.InlineKeyboardButton{Text: text, URL: websiteURL}
}
