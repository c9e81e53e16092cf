package wizard

import "github.com/abhisek/immowert/internal/submission"

// submitDoneMsg carries the webhook outcome back to the update loop.
type submitDoneMsg struct {
	Reply *submission.Reply
	Err   error
}
