package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

type VendorHandler struct {
	service ports.VendorService
}

func NewVendorHandler(service ports.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// Create adds a vendor to the catalogue.
//
// @Summary      Create vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVendorRequest  true  "Vendor details"
// @Success      201   {object}  vendorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vendors [post]
func (h *VendorHandler) Create(c echo.Context) error {
	var req createVendorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	v, err := h.service.Create(c.Request().Context(), toCreateVendorInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVendorResponse(v))
}

// Search filters, ranks and paginates the vendor catalogue.
//
// @Summary      Search vendors
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        search       query     string  false  "Name contains (case-insensitive)"
// @Param        country      query     string  false  "Supported country"
// @Param        service      query     string  false  "Offered service"
// @Param        minRating    query     number  false  "Minimum rating"
// @Param        maxSlaHours  query     int     false  "Maximum response SLA in hours"
// @Success      200          {object}  vendorListResponse
// @Failure      400          {object}  errorResponse
// @Router       /vendors [get]
func (h *VendorHandler) Search(c echo.Context) error {
	var q searchVendorsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.service.Search(c.Request().Context(), toVendorQuery(q))
	if err != nil {
		return err
	}
	metrics.VendorSearchResults.Observe(float64(res.Meta.Total))

	return c.JSON(http.StatusOK, vendorListResponse{
		Data: mapSlice(res.Items, toVendorResponse),
		Pagination: vendorPageResponse{
			Page:  res.Meta.Page,
			Limit: res.Meta.Limit,
			Total: res.Meta.Total,
			Pages: res.Meta.TotalPages,
		},
	})
}

// Get returns one vendor.
//
// @Summary      Get vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vendor ID"
// @Success      200  {object}  vendorResponse
// @Failure      404  {object}  errorResponse
// @Router       /vendors/{id} [get]
func (h *VendorHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVendorResponse(v))
}

// Update patches a vendor.
//
// @Summary      Update vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Vendor ID"
// @Param        body  body      updateVendorRequest  true  "Fields to change"
// @Success      200   {object}  vendorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /vendors/{id} [patch]
func (h *VendorHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateVendorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	v, err := h.service.Update(c.Request().Context(), id, toVendorUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVendorResponse(v))
}

// Delete removes a vendor.
//
// @Summary      Delete vendor
// @Tags         vendors
// @Security     BearerAuth
// @Param        id   path  int  true  "Vendor ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
