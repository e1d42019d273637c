/*
Package invitesdk provides a client for the invites service.

# Overview

The service keeps a ledger of invite codes (short, shareable) and email
invites (long tokens bound to an address). Issuers create them, the invitee
looks them up and the signup flow redeems them exactly once.

	client := invitesdk.NewClient("https://invites.example.com")

	// Public lookup, no credentials needed
	v, err := client.ValidateCode(ctx, "ABCD2345")

	// Issuer operations need a JWT from the auth service
	issuer := client.WithToken(accessToken)
	inv, err := issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{Notes: "for sam"})

# Errors

Every non-2xx response becomes an *APIError carrying the status, the
machine readable code and, for 429s, the Retry-After duration:

	if _, err := issuer.IssueCode(ctx, req); invitesdk.IsQuotaExceeded(err) {
		// wait for an invite to be redeemed or expire
	}

Lookups and redemptions never say why a token was rejected: unknown,
used and expired tokens all produce invalid_invite.
*/
package invitesdk
