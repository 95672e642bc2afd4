package handler

import (
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		ClientID: req.ClientID,
	}
}

func toUserUpdate(req updateUserRequest) domain.UserUpdate {
	upd := domain.UserUpdate{Email: req.Email, ClientID: req.ClientID, IsActive: req.IsActive}
	if req.Role != nil {
		r := domain.Role(*req.Role)
		upd.Role = &r
	}
	return upd
}

func toCreateProjectInput(req createProjectRequest) ports.CreateProjectInput {
	return ports.CreateProjectInput{
		ClientID:       req.ClientID,
		Country:        req.Country,
		ServicesNeeded: req.ServicesNeeded,
		Budget:         req.Budget,
		Status:         domain.ProjectStatus(req.Status),
	}
}

func toProjectUpdate(req updateProjectRequest) domain.ProjectUpdate {
	upd := domain.ProjectUpdate{Country: req.Country, ServicesNeeded: req.ServicesNeeded, Budget: req.Budget}
	if req.Status != nil {
		s := domain.ProjectStatus(*req.Status)
		upd.Status = &s
	}
	return upd
}

func toListProjectsInput(q listProjectsQuery) ports.ListProjectsInput {
	in := ports.ListProjectsInput{
		Status:  domain.ProjectStatus(q.Status),
		Country: q.Country,
		Page:    domain.NewPage(q.Page, q.Limit),
	}
	if q.ClientID > 0 {
		id := q.ClientID
		in.ClientID = &id
	}
	return in
}

func toCreateVendorInput(req createVendorRequest) ports.CreateVendorInput {
	return ports.CreateVendorInput{
		Name:               req.Name,
		CountriesSupported: req.CountriesSupported,
		ServicesOffered:    req.ServicesOffered,
		Rating:             req.Rating,
		ResponseSLAHours:   req.ResponseSLAHours,
	}
}

func toVendorUpdate(req updateVendorRequest) domain.VendorUpdate {
	return domain.VendorUpdate{
		Name:               req.Name,
		CountriesSupported: req.CountriesSupported,
		ServicesOffered:    req.ServicesOffered,
		Rating:             req.Rating,
		ResponseSLAHours:   req.ResponseSLAHours,
	}
}

func toVendorQuery(q searchVendorsQuery) domain.VendorQuery {
	return domain.VendorQuery{
		Search:      q.Search,
		Country:     q.Country,
		Service:     q.Service,
		MinRating:   q.MinRating,
		MaxSLAHours: q.MaxSLAHours,
		Page:        domain.NewPage(q.Page, q.Limit),
	}
}

// --- Service result → HTTP response ---

func toUserSummary(p domain.Principal) userSummary {
	return userSummary{
		ID:       p.ID(),
		Email:    p.Email(),
		Role:     string(p.Role()),
		ClientID: p.ClientIDPtr(),
	}
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{AccessToken: res.Token, User: toUserSummary(res.Principal)}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		ClientID:  u.ClientID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		CompanyName:  c.CompanyName,
		ContactEmail: c.ContactEmail,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Country:        p.Country,
		ServicesNeeded: p.ServicesNeeded,
		Budget:         p.Budget,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPageMeta(m domain.PageMeta) pageMetaResponse {
	return pageMetaResponse{
		Page:        m.Page,
		Limit:       m.Limit,
		Total:       m.Total,
		TotalPages:  m.TotalPages,
		HasNext:     m.HasNext,
		HasPrevious: m.HasPrevious,
	}
}

func toVendorResponse(v *domain.Vendor) vendorResponse {
	return vendorResponse{
		ID:                 v.ID,
		Name:               v.Name,
		CountriesSupported: v.CountriesSupported,
		ServicesOffered:    v.ServicesOffered,
		Rating:             v.Rating,
		ResponseSLAHours:   v.ResponseSLAHours,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, f func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}
