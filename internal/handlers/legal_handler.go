package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - Rentora</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: August 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, name, and the listing, lease, and payment records you create on the platform. Landlords who apply for verification also upload identity documents.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used solely to operate Rentora, authenticate your account, process rental agreements and payments, and improve our services.</p>
<h2>Identity Documents</h2>
<p>Verification documents are stored encrypted and are accessible only to our review staff through time-limited links. They are never shared with other users.</p>
<h2>Data Storage</h2>
<p>Your data is stored securely on encrypted servers. We do not sell your personal information to third parties.</p>
<h2>Account Deletion</h2>
<p>You can delete your account at any time from your profile settings. Lease and payment records tied to signed agreements are retained as required by law.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at privacy@rentora.app</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - Rentora</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: August 2026</p>
<h2>Acceptance</h2>
<p>By using Rentora, you agree to these terms.</p>
<h2>Listings</h2>
<p>Landlords are responsible for the accuracy of their listings. Listings are reviewed before publication and we may reject or remove listings that violate our guidelines.</p>
<h2>Leases and Payments</h2>
<p>Lease agreements signed through the platform are binding between tenant and landlord. Rentora records payments and deposit status but is not a party to the agreement.</p>
<h2>User Conduct</h2>
<p>You agree not to post offensive or misleading content or to move conversations off-platform to circumvent our protections. We moderate messages and may suspend accounts that violate these rules.</p>
<h2>Termination</h2>
<p>We may suspend or terminate accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions, contact us at support@rentora.app</p>
</body></html>`)
}
