package notify

import "fmt"

func buildOTPEmailBody(name, otp string, expiryMinutes int) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Hi %s,</h2>
            <p>Your FoodMandu verification code is:</p>
            <p style="font-size: 2em; font-weight: bold; letter-spacing: 4px;">%s</p>
            <p>The code expires in %d minutes. If you did not request it, ignore this email.</p>
            <p>— The FoodMandu team</p>
        </body>
        </html>
    `, name, otp, expiryMinutes)
}

func buildVerificationEmailBody(name, link string) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Welcome to FoodMandu, %s!</h2>
            <p>Confirm your email address by clicking the link below:</p>
            <p><a href="%s">Verify my email</a></p>
            <p>If you did not create an account, ignore this email.</p>
        </body>
        </html>
    `, name, link)
}

func buildResetEmailBody(name, link string, expiryMinutes int) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Hi %s,</h2>
            <p>We received a request to reset your password. The link below is valid for %d minutes:</p>
            <p><a href="%s">Reset my password</a></p>
            <p>If you did not request a reset, you can safely ignore this email.</p>
        </body>
        </html>
    `, name, expiryMinutes, link)
}

func buildResetConfirmationBody(name string) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Hi %s,</h2>
            <p>Your FoodMandu password was just changed. If this wasn't you, reset it again immediately.</p>
        </body>
        </html>
    `, name)
}

func buildWelcomeBody(name string) string {
	return fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif; color: #333;">
            <h2>Welcome aboard, %s!</h2>
            <p>Your email is verified and your FoodMandu account is ready. Hungry yet?</p>
        </body>
        </html>
    `, name)
}

func buildSMSOTPBody(otp string) string {
	return fmt.Sprintf("Your FoodMandu verification code is: %s", otp)
}
