package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRuleFlow defines admin operations for pricing rules. Rules are
// immutable; a change is a delete followed by a create.
type PricingRuleFlow interface {
	AdminCreatePricingRule(ctx context.Context, req *dto.AdminCreatePricingRuleRequest, metadata *ClientMetadata) (*dto.AdminCreatePricingRuleResponse, error)
	AdminDeletePricingRule(ctx context.Context, ruleUUID string, metadata *ClientMetadata) (*dto.AdminDeleteResponse, error)
	AdminListPricingRules(ctx context.Context, channel string, firmID *uint) (*dto.AdminListPricingRulesResponse, error)
}

type PricingRuleFlowImpl struct {
	ruleRepo     repository.PricingRuleRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	firmRepo     repository.FirmRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

func NewPricingRuleFlow(
	ruleRepo repository.PricingRuleRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	firmRepo repository.FirmRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) PricingRuleFlow {
	return &PricingRuleFlowImpl{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		firmRepo:     firmRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

func (f *PricingRuleFlowImpl) AdminCreatePricingRule(ctx context.Context, req *dto.AdminCreatePricingRuleRequest, metadata *ClientMetadata) (*dto.AdminCreatePricingRuleResponse, error) {
	pct, err := parsePercentage(req.Percentage)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_PERCENTAGE_INVALID", "Percentage must be a signed decimal", err)
	}
	start, end, err := parseDateWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_WINDOW_INVALID", "Invalid validity window", err)
	}

	rule := &models.PricingRule{
		UUID:        uuid.New(),
		Name:        req.Name,
		Scope:       models.RuleScope(req.Scope),
		CategoryID:  req.CategoryID,
		ProductID:   req.ProductID,
		Channel:     models.SalesChannel(req.Channel),
		FirmID:      req.FirmID,
		MinQuantity: req.MinQuantity,
		Percentage:  pct,
		Priority:    req.Priority,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   utils.UTCNow(),
	}
	if !rule.Channel.IsValid() {
		return nil, NewBusinessError("PRICING_RULE_CHANNEL_INVALID", "Unknown sales channel", ErrInvalidChannel)
	}
	if !rule.ScopeConsistent() {
		return nil, NewBusinessError("PRICING_RULE_SCOPE_INVALID", "Scope target fields do not match the scope", ErrInvalidRuleScope)
	}
	if err := f.checkTargets(ctx, rule); err != nil {
		errMsg := fmt.Sprintf("Create pricing rule %q failed: %s", req.Name, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, auditFirmID(req.FirmID, err), models.AuditActionPricingRuleFailed, errMsg, false, &errMsg, metadata)
		return nil, err
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		if err := f.ruleRepo.Save(txCtx, rule); err != nil {
			return err
		}
		msg := fmt.Sprintf("Pricing rule %s (%s, %s%%) created", rule.UUID, rule.Scope, rule.Percentage)
		return createAuditLog(txCtx, f.auditRepo, rule.FirmID, models.AuditActionPricingRuleCreated, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Create pricing rule %q failed: %s", req.Name, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, auditFirmID(req.FirmID, err), models.AuditActionPricingRuleFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("PRICING_RULE_SAVE_FAILED", "Failed to save pricing rule", err)
	}

	return &dto.AdminCreatePricingRuleResponse{
		Message: "Pricing rule created successfully",
		Rule:    toPricingRuleDTO(rule),
	}, nil
}

func (f *PricingRuleFlowImpl) checkTargets(ctx context.Context, rule *models.PricingRule) error {
	if rule.CategoryID != nil {
		category, err := f.categoryRepo.ByID(ctx, *rule.CategoryID)
		if err != nil {
			return NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to load category", err)
		}
		if category == nil {
			return NewBusinessError("PRICING_RULE_CATEGORY_NOT_FOUND", "Category not found", ErrCategoryNotFound)
		}
	}
	if rule.ProductID != nil {
		product, err := f.productRepo.ByID(ctx, *rule.ProductID)
		if err != nil {
			return NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to load product", err)
		}
		if product == nil {
			return NewBusinessError("PRICING_RULE_PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
		}
	}
	if rule.FirmID != nil {
		firm, err := f.firmRepo.ByID(ctx, *rule.FirmID)
		if err != nil {
			return NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to load firm", err)
		}
		if firm == nil {
			return NewBusinessError("PRICING_RULE_FIRM_NOT_FOUND", "Firm not found", ErrFirmNotFound)
		}
	}
	return nil
}

func (f *PricingRuleFlowImpl) AdminDeletePricingRule(ctx context.Context, ruleUUID string, metadata *ClientMetadata) (*dto.AdminDeleteResponse, error) {
	id, err := uuid.Parse(ruleUUID)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	rule, err := f.ruleRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LOOKUP_FAILED", "Failed to load pricing rule", err)
	}
	if rule == nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		deleted, err := f.ruleRepo.DeleteByID(txCtx, rule.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrPricingRuleNotFound
		}
		msg := fmt.Sprintf("Pricing rule %s (%s) deleted", rule.UUID, rule.Name)
		return createAuditLog(txCtx, f.auditRepo, rule.FirmID, models.AuditActionPricingRuleDeleted, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Delete pricing rule %s failed: %s", rule.UUID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, rule.FirmID, models.AuditActionPricingRuleFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("PRICING_RULE_DELETE_FAILED", "Failed to delete pricing rule", err)
	}

	return &dto.AdminDeleteResponse{
		Message: "Pricing rule deleted successfully",
		UUID:    rule.UUID.String(),
	}, nil
}

// AdminListPricingRules lists rules in evaluation order
func (f *PricingRuleFlowImpl) AdminListPricingRules(ctx context.Context, channel string, firmID *uint) (*dto.AdminListPricingRulesResponse, error) {
	filter := models.PricingRuleFilter{FirmID: firmID}
	if channel != "" {
		ch := models.SalesChannel(channel)
		if !ch.IsValid() {
			return nil, NewBusinessError("PRICING_RULE_CHANNEL_INVALID", "Unknown sales channel", ErrInvalidChannel)
		}
		filter.Channel = &ch
	}

	rows, err := f.ruleRepo.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LIST_FAILED", "Failed to list pricing rules", err)
	}

	items := make([]dto.PricingRuleDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, toPricingRuleDTO(r))
	}
	return &dto.AdminListPricingRulesResponse{
		Message: "Pricing rules retrieved successfully",
		Items:   items,
	}, nil
}

func toPricingRuleDTO(r *models.PricingRule) dto.PricingRuleDTO {
	return dto.PricingRuleDTO{
		ID:          r.ID,
		UUID:        r.UUID.String(),
		Name:        r.Name,
		Scope:       string(r.Scope),
		CategoryID:  r.CategoryID,
		ProductID:   r.ProductID,
		Channel:     string(r.Channel),
		FirmID:      r.FirmID,
		MinQuantity: r.MinQuantity,
		Percentage:  formatPercent(r.Percentage),
		Priority:    r.Priority,
		StartDate:   utils.FormatDatePtr(r.StartDate),
		EndDate:     utils.FormatDatePtr(r.EndDate),
		CreatedAt:   formatTime(r.CreatedAt),
	}
}
