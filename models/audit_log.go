package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FirmID       *uint           `gorm:"column:firma_id;index:idx_audit_firma_id" json:"firm_id,omitempty"`
	Action       string          `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionOrderCreated            = "order_created"
	AuditActionOrderCreateFailed       = "order_create_failed"
	AuditActionOrderStatusChanged      = "order_status_changed"
	AuditActionOrderStatusChangeFailed = "order_status_change_failed"
	AuditActionPricingRuleCreated      = "pricing_rule_created"
	AuditActionPricingRuleDeleted      = "pricing_rule_deleted"
	AuditActionPricingRuleFailed       = "pricing_rule_failed"
	AuditActionPriceOverrideCreated    = "price_override_created"
	AuditActionPriceOverrideDeleted    = "price_override_deleted"
	AuditActionPriceOverrideFailed     = "price_override_failed"
	AuditActionProfileCreated          = "customer_profile_created"
	AuditActionProfileAssigned         = "customer_profile_assigned"
	AuditActionProfileFailed           = "customer_profile_failed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	FirmID        *uint
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
