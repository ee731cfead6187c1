// Package businessflow contains the pricing engine and the order and admin workflows built on it
package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// auditFirmID drops a firm reference the audit_log foreign key would reject
func auditFirmID(firmID *uint, cause error) *uint {
	if errors.Is(cause, ErrFirmNotFound) {
		return nil
	}
	return firmID
}

// createAuditLog writes an audit_log row; Additional metadata is stored as jsonb
func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, firmID *uint, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	if auditRepo == nil {
		return nil
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		FirmID:       firmID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	if metadata != nil && len(metadata.Additional) > 0 {
		if raw, err := json.Marshal(metadata.Additional); err == nil {
			audit.Metadata = raw
		}
	}

	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		audit.RequestID = &requestID
	} else if metadata != nil && metadata.RequestID != "" {
		audit.RequestID = utils.ToPtr(metadata.RequestID)
	}

	return auditRepo.Save(ctx, audit)
}

// withTx runs fn inside a transaction when a database handle is configured
func withTx(ctx context.Context, db *gorm.DB, fn func(context.Context) error) error {
	if db == nil {
		return fn(ctx)
	}
	return repository.WithTransaction(ctx, db, fn)
}

// getActiveFirm loads a firm and checks it can trade
func getActiveFirm(ctx context.Context, firmRepo repository.FirmRepository, firmID uint) (*models.Firm, error) {
	firm, err := firmRepo.ByID(ctx, firmID)
	if err != nil {
		return nil, err
	}
	if firm == nil {
		return nil, ErrFirmNotFound
	}
	if !firm.Active() {
		return nil, ErrFirmInactive
	}
	if !firm.Type.IsValid() {
		return nil, ErrInvalidChannel
	}
	return firm, nil
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatPercent(d decimal.Decimal) string {
	return d.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parsePercentage accepts a signed decimal string
func parsePercentage(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidPercentage
	}
	return d, nil
}

// parseDateWindow parses optional YYYY-MM-DD bounds and checks their order
func parseDateWindow(start, end *string) (*time.Time, *time.Time, error) {
	s, err := utils.ParseDatePtr(start)
	if err != nil {
		return nil, nil, ErrInvalidDate
	}
	e, err := utils.ParseDatePtr(end)
	if err != nil {
		return nil, nil, ErrInvalidDate
	}
	if s != nil && e != nil && s.After(*e) {
		return nil, nil, ErrStartDateAfterEndDate
	}
	return s, e, nil
}
