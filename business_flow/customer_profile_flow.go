package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"gorm.io/gorm"
)

// CustomerProfileFlow manages discount profiles and their assignment to firms
type CustomerProfileFlow interface {
	AdminCreateCustomerProfile(ctx context.Context, req *dto.AdminCreateCustomerProfileRequest, metadata *ClientMetadata) (*dto.AdminCreateCustomerProfileResponse, error)
	AdminListCustomerProfiles(ctx context.Context) (*dto.AdminListCustomerProfilesResponse, error)
	AdminAssignFirmProfile(ctx context.Context, firmID uint, req *dto.AdminAssignFirmProfileRequest, metadata *ClientMetadata) (*dto.AdminAssignFirmProfileResponse, error)
}

type CustomerProfileFlowImpl struct {
	profileRepo repository.CustomerProfileRepository
	firmRepo    repository.FirmRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

func NewCustomerProfileFlow(
	profileRepo repository.CustomerProfileRepository,
	firmRepo repository.FirmRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CustomerProfileFlow {
	return &CustomerProfileFlowImpl{
		profileRepo: profileRepo,
		firmRepo:    firmRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

func (f *CustomerProfileFlowImpl) AdminCreateCustomerProfile(ctx context.Context, req *dto.AdminCreateCustomerProfileRequest, metadata *ClientMetadata) (*dto.AdminCreateCustomerProfileResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewBusinessError("CUSTOMER_PROFILE_NAME_REQUIRED", "Profile name is required", ErrProfileNameRequired)
	}
	pct, err := parsePercentage(req.GeneralDiscountPercent)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_PERCENTAGE_INVALID", "Discount must be a signed decimal", err)
	}

	existing, err := f.profileRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_LOOKUP_FAILED", "Failed to load customer profile", err)
	}
	if existing != nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_NAME_TAKEN", "A profile with this name already exists", ErrProfileNameAlreadyTaken)
	}

	profile := &models.CustomerProfile{
		Name:                   name,
		GeneralDiscountPercent: pct,
		Description:            req.Description,
		CreatedAt:              utils.UTCNow(),
		UpdatedAt:              utils.UTCNow(),
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		if err := f.profileRepo.Save(txCtx, profile); err != nil {
			return err
		}
		msg := fmt.Sprintf("Customer profile %q created with %s%%", profile.Name, profile.GeneralDiscountPercent)
		return createAuditLog(txCtx, f.auditRepo, nil, models.AuditActionProfileCreated, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Create customer profile %q failed: %s", name, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionProfileFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CUSTOMER_PROFILE_SAVE_FAILED", "Failed to save customer profile", err)
	}

	return &dto.AdminCreateCustomerProfileResponse{
		Message: "Customer profile created successfully",
		Profile: toCustomerProfileDTO(profile),
	}, nil
}

func (f *CustomerProfileFlowImpl) AdminListCustomerProfiles(ctx context.Context) (*dto.AdminListCustomerProfilesResponse, error) {
	rows, err := f.profileRepo.ByFilter(ctx, models.CustomerProfileFilter{}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_LIST_FAILED", "Failed to list customer profiles", err)
	}

	items := make([]dto.CustomerProfileDTO, 0, len(rows))
	for _, p := range rows {
		items = append(items, toCustomerProfileDTO(p))
	}
	return &dto.AdminListCustomerProfilesResponse{
		Message: "Customer profiles retrieved successfully",
		Items:   items,
	}, nil
}

// AdminAssignFirmProfile fully replaces the firm's profile; profiles never stack
func (f *CustomerProfileFlowImpl) AdminAssignFirmProfile(ctx context.Context, firmID uint, req *dto.AdminAssignFirmProfileRequest, metadata *ClientMetadata) (*dto.AdminAssignFirmProfileResponse, error) {
	firm, err := f.firmRepo.ByID(ctx, firmID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_LOOKUP_FAILED", "Failed to load firm", err)
	}
	if firm == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_FIRM_NOT_FOUND", "Firm not found", ErrFirmNotFound)
	}

	if req.ProfileID != nil {
		profile, err := f.profileRepo.ByID(ctx, *req.ProfileID)
		if err != nil {
			return nil, NewBusinessError("CUSTOMER_PROFILE_LOOKUP_FAILED", "Failed to load customer profile", err)
		}
		if profile == nil {
			return nil, NewBusinessError("CUSTOMER_PROFILE_NOT_FOUND", "Customer profile not found", ErrProfileNotFound)
		}
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		if err := f.firmRepo.AssignProfile(txCtx, firm.ID, req.ProfileID); err != nil {
			return err
		}
		msg := fmt.Sprintf("Firm %d profile set to %s", firm.ID, describeProfileID(req.ProfileID))
		return createAuditLog(txCtx, f.auditRepo, &firm.ID, models.AuditActionProfileAssigned, msg, true, nil, metadata)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Assign profile to firm %d failed: %s", firm.ID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, &firm.ID, models.AuditActionProfileFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CUSTOMER_PROFILE_ASSIGN_FAILED", "Failed to assign customer profile", err)
	}

	return &dto.AdminAssignFirmProfileResponse{
		Message:   "Customer profile assigned successfully",
		FirmID:    firm.ID,
		ProfileID: req.ProfileID,
	}, nil
}

func describeProfileID(id *uint) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

func toCustomerProfileDTO(p *models.CustomerProfile) dto.CustomerProfileDTO {
	return dto.CustomerProfileDTO{
		ID:                     p.ID,
		Name:                   p.Name,
		GeneralDiscountPercent: formatPercent(p.GeneralDiscountPercent),
		Description:            p.Description,
		CreatedAt:              formatTime(p.CreatedAt),
	}
}
