package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
	"github.com/allisson/medgate/internal/metrics"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

// gatewayWithMetrics decorates Gateway with metrics instrumentation.
type gatewayWithMetrics struct {
	next    Gateway
	metrics metrics.BusinessMetrics
}

// NewGatewayWithMetrics wraps a Gateway with metrics recording.
func NewGatewayWithMetrics(gateway Gateway, m metrics.BusinessMetrics) Gateway {
	return &gatewayWithMetrics{next: gateway, metrics: m}
}

func (g *gatewayWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	g.metrics.RecordOperation(ctx, "gateway", operation, status)
	g.metrics.RecordDuration(ctx, "gateway", operation, time.Since(start), status)
}

func (g *gatewayWithMetrics) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := g.next.Login(ctx, input)
	g.record(ctx, "login", start, err)
	return output, err
}

func (g *gatewayWithMetrics) Logout(ctx context.Context, actor *authDomain.User, tokenHash string) error {
	start := time.Now()
	err := g.next.Logout(ctx, actor, tokenHash)
	g.record(ctx, "logout", start, err)
	return err
}

func (g *gatewayWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error) {
	start := time.Now()
	user, err := g.next.Authenticate(ctx, tokenHash)
	g.record(ctx, "authenticate", start, err)
	return user, err
}

func (g *gatewayWithMetrics) ListRecords(
	ctx context.Context,
	actor *authDomain.User,
	offset, limit int,
) (*gatewayDomain.RecordListView, error) {
	start := time.Now()
	view, err := g.next.ListRecords(ctx, actor, offset, limit)
	g.record(ctx, "record_list", start, err)
	return view, err
}

func (g *gatewayWithMetrics) CreateRecord(
	ctx context.Context,
	actor *authDomain.User,
	input *recordDomain.CreateRecordInput,
) (*gatewayDomain.RecordAck, error) {
	start := time.Now()
	ack, err := g.next.CreateRecord(ctx, actor, input)
	g.record(ctx, "record_create", start, err)
	return ack, err
}

func (g *gatewayWithMetrics) EditRecord(
	ctx context.Context,
	actor *authDomain.User,
	recordID uuid.UUID,
	input *recordDomain.EditRecordInput,
) (*gatewayDomain.RecordAck, error) {
	start := time.Now()
	ack, err := g.next.EditRecord(ctx, actor, recordID, input)
	g.record(ctx, "record_edit", start, err)
	return ack, err
}

func (g *gatewayWithMetrics) DeleteRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID) error {
	start := time.Now()
	err := g.next.DeleteRecord(ctx, actor, recordID)
	g.record(ctx, "record_delete", start, err)
	return err
}

func (g *gatewayWithMetrics) AnonymizeAll(ctx context.Context, actor *authDomain.User) (int, error) {
	start := time.Now()
	count, err := g.next.AnonymizeAll(ctx, actor)
	g.record(ctx, "record_anonymize", start, err)
	return count, err
}

func (g *gatewayWithMetrics) QueryAuditLog(
	ctx context.Context,
	actor *authDomain.User,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	start := time.Now()
	entries, err := g.next.QueryAuditLog(ctx, actor, filter)
	g.record(ctx, "audit_query", start, err)
	return entries, err
}

func (g *gatewayWithMetrics) SetConsent(
	ctx context.Context,
	actor *authDomain.User,
	input *consentDomain.SetConsentInput,
) (*consentDomain.ConsentEntry, error) {
	start := time.Now()
	entry, err := g.next.SetConsent(ctx, actor, input)
	g.record(ctx, "consent_update", start, err)
	return entry, err
}

func (g *gatewayWithMetrics) PurgeExpired(
	ctx context.Context,
	actor *authDomain.User,
	now time.Time,
	dryRun bool,
) (int, error) {
	start := time.Now()
	count, err := g.next.PurgeExpired(ctx, actor, now, dryRun)
	g.record(ctx, "purge_expired", start, err)
	return count, err
}
