// Package mailhook provides a Go client SDK for Mailhook, an API for
// disposable and transactional email: domains, email addresses, inbound
// and outbound messages, webhooks and agent accounts.
//
// Basic usage:
//
//	client := mailhook.New(
//	    mailhook.WithCredentials(os.Getenv("MAILHOOK_AGENT_ID"), os.Getenv("MAILHOOK_API_KEY")),
//	)
//
//	// Create a random address on a domain
//	resp, err := client.EmailAddresses.CreateRandom(ctx, "5")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Address:", resp.Get("address"))
//
// Every call returns a [*Response] or an [*Error]. Responses expose the
// JSON body through accessors that work for both single objects and lists:
//
//	emails, err := client.InboundEmails.List(ctx, addressID, &mailhook.InboundEmailListOptions{
//	    Unread: mailhook.Bool(true),
//	})
//	for email := range emails.All() {
//	    fmt.Println(email.(map[string]any)["subject"])
//	}
//
// Errors carry a kind derived from the HTTP status and can be matched with
// errors.Is:
//
//	if errors.Is(err, mailhook.ErrNotFound) {
//	    // Handle missing resource
//	}
//
// Settings not passed to [New] fall back to the process-wide configuration,
// which can be changed with [Configure] and restored with
// [ResetConfiguration].
package mailhook
