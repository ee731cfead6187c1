package dto

// AdminCreatePricingRuleRequest defines a percentage rule. Rules are never
// edited; replace one by deleting it and creating a new one.
type AdminCreatePricingRuleRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Scope       string  `json:"scope" validate:"required,oneof=global category product"`
	CategoryID  *uint   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ProductID   *uint   `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Channel     string  `json:"channel" validate:"required,oneof=musteri alt_bayi"`
	FirmID      *uint   `json:"firm_id,omitempty" validate:"omitempty,gt=0"`
	MinQuantity int     `json:"min_quantity" validate:"gte=0"`
	Percentage  string  `json:"percentage" validate:"required,numeric"`
	Priority    int     `json:"priority"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type PricingRuleDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	Name        string  `json:"name"`
	Scope       string  `json:"scope"`
	CategoryID  *uint   `json:"category_id,omitempty"`
	ProductID   *uint   `json:"product_id,omitempty"`
	Channel     string  `json:"channel"`
	FirmID      *uint   `json:"firm_id,omitempty"`
	MinQuantity int     `json:"min_quantity"`
	Percentage  string  `json:"percentage"`
	Priority    int     `json:"priority"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type AdminCreatePricingRuleResponse struct {
	Message string         `json:"message"`
	Rule    PricingRuleDTO `json:"rule"`
}

type AdminListPricingRulesResponse struct {
	Message string           `json:"message"`
	Items   []PricingRuleDTO `json:"items"`
}

type AdminDeleteResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
}

// AdminCreatePriceOverrideRequest pins a net unit price for a firm
type AdminCreatePriceOverrideRequest struct {
	ProductID uint    `json:"product_id" validate:"required,gt=0"`
	FirmID    uint    `json:"firm_id" validate:"required,gt=0"`
	Channel   string  `json:"channel" validate:"required,oneof=musteri alt_bayi"`
	NetPrice  string  `json:"net_price" validate:"required,numeric"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type PriceOverrideDTO struct {
	ID        uint    `json:"id"`
	UUID      string  `json:"uuid"`
	ProductID uint    `json:"product_id"`
	FirmID    uint    `json:"firm_id"`
	Channel   string  `json:"channel"`
	NetPrice  string  `json:"net_price"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type AdminCreatePriceOverrideResponse struct {
	Message  string           `json:"message"`
	Override PriceOverrideDTO `json:"override"`
}

type AdminListPriceOverridesResponse struct {
	Message string             `json:"message"`
	Items   []PriceOverrideDTO `json:"items"`
}

type AdminCreateCustomerProfileRequest struct {
	Name                   string  `json:"name" validate:"required,max=255"`
	GeneralDiscountPercent string  `json:"general_discount_percent" validate:"required,numeric"`
	Description            *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type CustomerProfileDTO struct {
	ID                     uint    `json:"id"`
	Name                   string  `json:"name"`
	GeneralDiscountPercent string  `json:"general_discount_percent"`
	Description            *string `json:"description,omitempty"`
	CreatedAt              string  `json:"created_at"`
}

type AdminCreateCustomerProfileResponse struct {
	Message string             `json:"message"`
	Profile CustomerProfileDTO `json:"profile"`
}

type AdminListCustomerProfilesResponse struct {
	Message string               `json:"message"`
	Items   []CustomerProfileDTO `json:"items"`
}

// AdminAssignFirmProfileRequest replaces the firm's profile; a null profile_id unassigns it
type AdminAssignFirmProfileRequest struct {
	ProfileID *uint `json:"profile_id" validate:"omitempty,gt=0"`
}

type AdminAssignFirmProfileResponse struct {
	Message   string `json:"message"`
	FirmID    uint   `json:"firm_id"`
	ProfileID *uint  `json:"profile_id,omitempty"`
}
