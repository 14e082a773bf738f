package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/tendant/simple-admin/pkg/directory"
)

// ImpersonationNotifier emails the security mailbox whenever an admin starts
// impersonating a user. It satisfies the impersonate.Notifier interface and
// is dispatched fire-and-forget: the impersonation request never waits on or
// fails because of this email. The audit trail, not this notice, is the
// safety control.
type ImpersonationNotifier struct {
	notifier  Notifier
	recipient string
}

// NewImpersonationNotifier creates a notifier that sends to the given
// security mailbox
func NewImpersonationNotifier(notifier Notifier, recipient string) *ImpersonationNotifier {
	return &ImpersonationNotifier{
		notifier:  notifier,
		recipient: recipient,
	}
}

func (n *ImpersonationNotifier) NotifyImpersonationStart(ctx context.Context, admin, target directory.User, expiresAt time.Time) error {
	body := fmt.Sprintf(
		"Admin %s (%s) started impersonating %s (%s).\nAccess expires at %s.",
		admin.Name, admin.Email,
		target.Name, target.Email,
		expiresAt.UTC().Format(time.RFC3339),
	)
	return n.notifier.Send(NotificationData{
		To:      n.recipient,
		Subject: fmt.Sprintf("Impersonation started by %s", admin.Email),
		Body:    body,
	})
}
