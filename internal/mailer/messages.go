package mailer

import (
	"fmt"
	"net/url"

	"github.com/bibletext/dailyverse/internal/models"
)

const verseHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f7f4;">
  <div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
    <div style="text-align: center; margin-bottom: 24px;">
      <span style="font-size: 48px;">&#128214;</span>
    </div>
    <div style="font-size: 20px; line-height: 1.8; color: #2c2c2c; margin-bottom: 24px;">
      "%s"
    </div>
    <div style="text-align: right; color: #666; font-style: italic; margin-bottom: 32px;">
      &mdash; %s (%s)
    </div>
    <hr style="border: none; border-top: 1px solid #e5e5e5; margin: 24px 0;">
    <div style="text-align: center; color: #999; font-size: 12px;">
      <p>You're receiving this because you subscribed to Bible Verse emails.</p>
      <p><a href="%s/manage?email=%s" style="color: #666;">Manage preferences</a> | <a href="%s/unsubscribe?email=%s" style="color: #666;">Unsubscribe</a></p>
    </div>
  </div>
</body>
</html>`

const verificationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f7f4;">
  <div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
    <div style="text-align: center; margin-bottom: 24px;">
      <span style="font-size: 48px;">&#128214;</span>
      <h1 style="color: #2c2c2c; margin: 16px 0 8px;">Verify Your Email</h1>
      <p style="color: #666;">Click the button below to start receiving Bible verses.</p>
    </div>
    <div style="text-align: center; margin: 32px 0;">
      <a href="%s" style="display: inline-block; background: #4f46e5; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 600;">
        Verify Email Address
      </a>
    </div>
    <div style="text-align: center; color: #999; font-size: 14px;">
      <p>Or copy this link: %s</p>
      <p style="margin-top: 24px;">If you didn't sign up for this, you can ignore this email.</p>
    </div>
  </div>
</body>
</html>`

// VerseMessage builds the verse delivery email for a subscriber.
func VerseMessage(v *models.Verse, to, appURL string) Message {
	escaped := url.QueryEscape(to)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("\U0001F4D6 Your Daily Bible Verse - %s", v.Reference),
		HTML:    fmt.Sprintf(verseHTML, v.Text, v.Reference, v.Version, appURL, escaped, appURL, escaped),
		Text: fmt.Sprintf("%s\n\n— %s (%s)\n\nManage preferences: %s/manage?email=%s",
			v.Text, v.Reference, v.Version, appURL, escaped),
	}
}

// SMSMessage builds the gateway message for SMS delivery. Gateways ignore
// the subject and only relay the plain-text body.
func SMSMessage(to, body string) Message {
	return Message{
		To:   to,
		Text: body,
	}
}

// VerificationMessage builds the signup verification email.
func VerificationMessage(to, code, appURL string) Message {
	verifyURL := fmt.Sprintf("%s/verify?email=%s&code=%s", appURL, url.QueryEscape(to), url.QueryEscape(code))

	return Message{
		To:      to,
		Subject: "\U0001F4D6 Verify your Bible Verse subscription",
		HTML:    fmt.Sprintf(verificationHTML, verifyURL, verifyURL),
		Text:    fmt.Sprintf("Verify your Bible Verse subscription by clicking this link: %s", verifyURL),
	}
}
