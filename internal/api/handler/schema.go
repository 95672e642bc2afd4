package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=CLIENT ADMIN"`
	ClientID *int64 `json:"clientId" validate:"omitempty,gt=0"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID *int64 `json:"clientId,omitempty"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        userSummary `json:"user"`
}

type profileResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

// --- Users ---

type updateUserRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     *string `json:"role"     validate:"omitempty,oneof=CLIENT ADMIN"`
	ClientID *int64  `json:"clientId" validate:"omitempty,gt=0"`
	IsActive *bool   `json:"isActive"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ClientID  *int64    `json:"clientId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Clients ---

type createClientRequest struct {
	CompanyName  string `json:"companyName"  validate:"required,max=200"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

type clientResponse struct {
	ID           int64     `json:"id"`
	CompanyName  string    `json:"companyName"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// --- Projects ---

type createProjectRequest struct {
	ClientID       int64    `json:"clientId"       validate:"required,gt=0"`
	Country        string   `json:"country"        validate:"required"`
	ServicesNeeded []string `json:"servicesNeeded" validate:"required,min=1,dive,required"`
	Budget         float64  `json:"budget"         validate:"gte=0"`
	Status         string   `json:"status"         validate:"omitempty,oneof=ACTIVE PENDING COMPLETED CANCELLED"`
}

type updateProjectRequest struct {
	Country        *string  `json:"country"        validate:"omitempty,min=1"`
	ServicesNeeded []string `json:"servicesNeeded" validate:"omitempty,min=1,dive,required"`
	Budget         *float64 `json:"budget"         validate:"omitempty,gte=0"`
	Status         *string  `json:"status"         validate:"omitempty,oneof=ACTIVE PENDING COMPLETED CANCELLED"`
}

type listProjectsQuery struct {
	Page     int    `query:"page"     validate:"gte=0"`
	Limit    int    `query:"limit"    validate:"gte=0"`
	Status   string `query:"status"   validate:"omitempty,oneof=ACTIVE PENDING COMPLETED CANCELLED"`
	Country  string `query:"country"`
	ClientID int64  `query:"clientId" validate:"gte=0"`
}

type projectResponse struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"clientId"`
	Country        string    `json:"country"`
	ServicesNeeded []string  `json:"servicesNeeded"`
	Budget         float64   `json:"budget"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type pageMetaResponse struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type projectListResponse struct {
	Data []projectResponse `json:"data"`
	Meta pageMetaResponse  `json:"meta"`
}

type vendorMatchResponse struct {
	vendorResponse
	MatchingServices int `json:"matchingServices"`
}

// --- Vendors ---

type createVendorRequest struct {
	Name               string   `json:"name"               validate:"required,max=200"`
	CountriesSupported []string `json:"countriesSupported" validate:"required,min=1,dive,required"`
	ServicesOffered    []string `json:"servicesOffered"    validate:"required,min=1,dive,required"`
	Rating             float64  `json:"rating"             validate:"required,gte=1,lte=5"`
	ResponseSLAHours   int      `json:"responseSlaHours"   validate:"required,gt=0"`
}

type updateVendorRequest struct {
	Name               *string  `json:"name"               validate:"omitempty,min=1,max=200"`
	CountriesSupported []string `json:"countriesSupported" validate:"omitempty,min=1,dive,required"`
	ServicesOffered    []string `json:"servicesOffered"    validate:"omitempty,min=1,dive,required"`
	Rating             *float64 `json:"rating"             validate:"omitempty,gte=1,lte=5"`
	ResponseSLAHours   *int     `json:"responseSlaHours"   validate:"omitempty,gt=0"`
}

type searchVendorsQuery struct {
	Page        int     `query:"page"        validate:"gte=0"`
	Limit       int     `query:"limit"       validate:"gte=0"`
	Search      string  `query:"search"`
	Country     string  `query:"country"`
	Service     string  `query:"service"`
	MinRating   float64 `query:"minRating"   validate:"gte=0,lte=5"`
	MaxSLAHours int     `query:"maxSlaHours" validate:"gte=0"`
}

type vendorResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	CountriesSupported []string  `json:"countriesSupported"`
	ServicesOffered    []string  `json:"servicesOffered"`
	Rating             float64   `json:"rating"`
	ResponseSLAHours   int       `json:"responseSlaHours"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type vendorPageResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type vendorListResponse struct {
	Data       []vendorResponse   `json:"data"`
	Pagination vendorPageResponse `json:"pagination"`
}
