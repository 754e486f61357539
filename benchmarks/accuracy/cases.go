// ABOUTME: Labelled tickets for measuring classifier routing accuracy
// ABOUTME: Each case names the route a human would pick for the ticket

package accuracy

import "github.com/harper/ticket-router/internal/models"

// Case is one labelled ticket
type Case struct {
	ID       string
	Text     string
	Expected models.RouteName
}

// DefaultCases returns labelled tickets for the built-in route table
func DefaultCases() []Case {
	return []Case{
		{
			ID:       "billing-double-charge",
			Text:     "Subject: Charged twice\nMessage: My card shows two charges of $29.99 for March. Please refund one.",
			Expected: "billing",
		},
		{
			ID:       "billing-unexpected-charge",
			Text:     "Subject: Unexpected charge on my card\nMessage: I was billed $49.99 but I thought I was on the $29.99 plan.",
			Expected: "billing",
		},
		{
			ID:       "billing-invoice",
			Text:     "Subject: Invoice copy\nMessage: Our accounting team needs a PDF invoice for last quarter with our VAT number on it.",
			Expected: "billing",
		},
		{
			ID:       "technical-crash",
			Text:     "Subject: App crashes on startup\nMessage: Since the 4.2 update the desktop app closes immediately with error code 0xC0000005.",
			Expected: "technical",
		},
		{
			ID:       "technical-api",
			Text:     "Subject: API returns 502\nMessage: Our integration gets intermittent 502 Bad Gateway responses from the /v2/orders endpoint.",
			Expected: "technical",
		},
		{
			ID:       "account-lockout",
			Text:     "Subject: Can't access my account\nMessage: I keep getting an 'invalid password' error even though the password is right. I need access today.",
			Expected: "account",
		},
		{
			ID:       "account-email-change",
			Text:     "Subject: Change login email\nMessage: I left my old company. How do I move my account to my new email address?",
			Expected: "account",
		},
		{
			ID:       "account-2fa",
			Text:     "Subject: Lost my phone\nMessage: My two-factor codes were on my old phone. How can I get back into my account?",
			Expected: "account",
		},
		{
			ID:       "product-export",
			Text:     "Subject: How to export data?\nMessage: I need to export all my project data to Excel. Is a bulk export possible?",
			Expected: "product",
		},
		{
			ID:       "product-feature",
			Text:     "Subject: Recurring tasks\nMessage: Does the Team plan support recurring tasks, and can I set them to skip weekends?",
			Expected: "product",
		},
	}
}
