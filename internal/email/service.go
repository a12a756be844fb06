package email

import (
	"context"
)

// Service sends clinic mail. Implementations are best-effort; callers
// log failures rather than failing the triggering operation.
type Service interface {
	SendBookingConfirmed(ctx context.Context, to, patientName, serviceName, date, timeOfDay string) error
	SendReceipt(ctx context.Context, to, subject, htmlBody string) error
}
