package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceOverrideFlow defines admin operations for customer price overrides
type PriceOverrideFlow interface {
	AdminCreatePriceOverride(ctx context.Context, req *dto.AdminCreatePriceOverrideRequest, metadata *ClientMetadata) (*dto.AdminCreatePriceOverrideResponse, error)
	AdminDeletePriceOverride(ctx context.Context, overrideUUID string, metadata *ClientMetadata) (*dto.AdminDeleteResponse, error)
	AdminListPriceOverrides(ctx context.Context, firmID uint) (*dto.AdminListPriceOverridesResponse, error)
}

type PriceOverrideFlowImpl struct {
	overrideRepo repository.PriceOverrideRepository
	productRepo  repository.ProductRepository
	firmRepo     repository.FirmRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

func NewPriceOverrideFlow(
	overrideRepo repository.PriceOverrideRepository,
	productRepo repository.ProductRepository,
	firmRepo repository.FirmRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) PriceOverrideFlow {
	return &PriceOverrideFlowImpl{
		overrideRepo: overrideRepo,
		productRepo:  productRepo,
		firmRepo:     firmRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// AdminCreatePriceOverride stores a fixed net price. Windows of the same
// (product, firm, channel) key may not overlap; the firm row lock serializes
// concurrent writers for that firm.
func (f *PriceOverrideFlowImpl) AdminCreatePriceOverride(ctx context.Context, req *dto.AdminCreatePriceOverrideRequest, metadata *ClientMetadata) (*dto.AdminCreatePriceOverrideResponse, error) {
	price, err := decimal.NewFromString(req.NetPrice)
	if err != nil || price.IsNegative() {
		return nil, NewBusinessError("PRICE_OVERRIDE_PRICE_INVALID", "Net price must be a non-negative decimal", ErrInvalidNetPrice)
	}
	start, end, err := parseDateWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_WINDOW_INVALID", "Invalid validity window", err)
	}
	channel := models.SalesChannel(req.Channel)
	if !channel.IsValid() {
		return nil, NewBusinessError("PRICE_OVERRIDE_CHANNEL_INVALID", "Unknown sales channel", ErrInvalidChannel)
	}

	product, err := f.productRepo.ByID(ctx, req.ProductID)
	if err != nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_LOOKUP_FAILED", "Failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	override := &models.CustomerPriceOverride{
		UUID:      uuid.New(),
		ProductID: req.ProductID,
		FirmID:    req.FirmID,
		Channel:   channel,
		NetPrice:  utils.RoundMoney(price),
		StartDate: start,
		EndDate:   end,
		CreatedAt: utils.UTCNow(),
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		firm, err := f.firmRepo.LockByID(txCtx, req.FirmID)
		if err != nil {
			return err
		}
		if firm == nil {
			return ErrFirmNotFound
		}
		if firm.Type != channel {
			return ErrOverrideChannelInvalid
		}

		existing, err := f.overrideRepo.ListCandidates(txCtx, req.ProductID, req.FirmID, channel)
		if err != nil {
			return err
		}
		for _, o := range existing {
			if utils.DateRangesOverlap(o.StartDate, o.EndDate, start, end) {
				return fmt.Errorf("%w: conflicts with %s", ErrOverrideWindowOverlap, o.UUID)
			}
		}

		if err := f.overrideRepo.Save(txCtx, override); err != nil {
			return err
		}
		msg := fmt.Sprintf("Price override %s for product %d set to %s", override.UUID, override.ProductID, formatMoney(override.NetPrice))
		return createAuditLog(txCtx, f.auditRepo, &override.FirmID, models.AuditActionPriceOverrideCreated, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Create price override for product %d failed: %s", req.ProductID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, auditFirmID(&req.FirmID, err), models.AuditActionPriceOverrideFailed, errMsg, false, &errMsg, metadata)
		switch {
		case errors.Is(err, ErrFirmNotFound):
			return nil, NewBusinessError("PRICE_OVERRIDE_FIRM_NOT_FOUND", "Firm not found", err)
		case errors.Is(err, ErrOverrideChannelInvalid):
			return nil, NewBusinessError("PRICE_OVERRIDE_CHANNEL_MISMATCH", "Channel does not match the firm type", err)
		case errors.Is(err, ErrOverrideWindowOverlap):
			return nil, NewBusinessError("PRICE_OVERRIDE_WINDOW_OVERLAP", "Validity window overlaps an existing override", err)
		}
		return nil, NewBusinessError("PRICE_OVERRIDE_SAVE_FAILED", "Failed to save price override", err)
	}

	return &dto.AdminCreatePriceOverrideResponse{
		Message:  "Price override created successfully",
		Override: toPriceOverrideDTO(override),
	}, nil
}

func (f *PriceOverrideFlowImpl) AdminDeletePriceOverride(ctx context.Context, overrideUUID string, metadata *ClientMetadata) (*dto.AdminDeleteResponse, error) {
	id, err := uuid.Parse(overrideUUID)
	if err != nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_NOT_FOUND", "Price override not found", ErrPriceOverrideNotFound)
	}

	override, err := f.overrideRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_LOOKUP_FAILED", "Failed to load price override", err)
	}
	if override == nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_NOT_FOUND", "Price override not found", ErrPriceOverrideNotFound)
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		deleted, err := f.overrideRepo.DeleteByID(txCtx, override.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrPriceOverrideNotFound
		}
		msg := fmt.Sprintf("Price override %s for product %d deleted", override.UUID, override.ProductID)
		return createAuditLog(txCtx, f.auditRepo, &override.FirmID, models.AuditActionPriceOverrideDeleted, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Delete price override %s failed: %s", override.UUID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, &override.FirmID, models.AuditActionPriceOverrideFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("PRICE_OVERRIDE_DELETE_FAILED", "Failed to delete price override", err)
	}

	return &dto.AdminDeleteResponse{
		Message: "Price override deleted successfully",
		UUID:    override.UUID.String(),
	}, nil
}

func (f *PriceOverrideFlowImpl) AdminListPriceOverrides(ctx context.Context, firmID uint) (*dto.AdminListPriceOverridesResponse, error) {
	rows, err := f.overrideRepo.ByFilter(ctx, models.CustomerPriceOverrideFilter{FirmID: &firmID}, "urun_id ASC, created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PRICE_OVERRIDE_LIST_FAILED", "Failed to list price overrides", err)
	}

	items := make([]dto.PriceOverrideDTO, 0, len(rows))
	for _, o := range rows {
		items = append(items, toPriceOverrideDTO(o))
	}
	return &dto.AdminListPriceOverridesResponse{
		Message: "Price overrides retrieved successfully",
		Items:   items,
	}, nil
}

func toPriceOverrideDTO(o *models.CustomerPriceOverride) dto.PriceOverrideDTO {
	return dto.PriceOverrideDTO{
		ID:        o.ID,
		UUID:      o.UUID.String(),
		ProductID: o.ProductID,
		FirmID:    o.FirmID,
		Channel:   string(o.Channel),
		NetPrice:  formatMoney(o.NetPrice),
		StartDate: utils.FormatDatePtr(o.StartDate),
		EndDate:   utils.FormatDatePtr(o.EndDate),
		CreatedAt: formatTime(o.CreatedAt),
	}
}
