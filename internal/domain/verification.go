package domain

// Ephemeral code key prefixes. MFA codes are user-scoped, reset links are
// scoped to the link signature.
const (
	mfaKeyPrefix   = "mfa_"
	resetKeyPrefix = "resetpw_"
)

// MFAKey returns the ephemeral store key holding userID's pending MFA code.
func MFAKey(userID string) string { return mfaKeyPrefix + userID }

// ResetKey returns the ephemeral store key mapping a reset link signature to a user id.
func ResetKey(signature string) string { return resetKeyPrefix + signature }

// Outbound email templates.
const (
	VerificationSubject  = "Your Verification Code"
	VerificationTemplate = `Hello,
<br/><br/>
Here's your verification code: <strong>{{CODE}}</strong>
<br/><br/>
This code is valid for {{MINUTES}} minutes.
<br/><br/>
Thank you!
`
	ResetPasswordSubject  = "Your Password Reset Link"
	ResetPasswordTemplate = `Hello,
<br/><br/>
You have requested to reset your password. Use the following link to reset it:
<br/><br/>
<a href="{{LINK}}">{{LINK}}</a>
<br/><br/>
If you did not request this, please ignore this email.
`
)
