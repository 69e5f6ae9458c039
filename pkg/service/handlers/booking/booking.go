// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package booking

import (
	"fmt"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"

	"github.com/gin-gonic/gin"
)

var (
	SearchFields  = []string{"CustomerName", "ServiceName"}
	SortFields    = []string{"ScheduledAt", "CreatedAt", "ID"}
	PreloadFields = []string{"Provider"}
	ModelName     = "Booking"
)

// transitions a booking may take from each status
var bookingTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCancelled, models.BookingStatusCompleted},
}

type BookingHandler struct {
	base.BaseHandler
}

// ListBooking list bookings
// @Tags        Booking
// @Summary     list bookings
// @Description list bookings with pagination and filters
// @Accept      json
// @Produce     json
// @Param       page        query    int    false "page"
// @Param       size        query    int    false "size"
// @Param       provider_id query    uint   false "filter by provider"
// @Param       status      query    string false "filter by status"
// @Success     200         {object} handlers.ResponseStruct{Data=handlers.PageData[models.Booking]} "resp"
// @Router      /v1/booking [get]
// @Security    JWT
func (h *BookingHandler) ListBooking(c *gin.Context) {
	list := []models.Booking{}
	query, err := handlers.GetQuery(c)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	cond := &handlers.PageQueryCond{
		Model:         ModelName,
		SearchFields:  SearchFields,
		SortFields:    SortFields,
		PreloadFields: PreloadFields,
	}
	if providerID := c.Query("provider_id"); providerID != "" {
		cond.Where = append(cond.Where, handlers.Args("provider_id = ?", providerID))
	}
	if status := c.Query("status"); status != "" {
		cond.Where = append(cond.Where, handlers.Args("status = ?", status))
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetBooking get a single booking
// @Tags        Booking
// @Summary     get a single booking
// @Description get a single booking by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                         true "booking id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.Booking} "resp"
// @Router      /v1/booking/{id} [get]
// @Security    JWT
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ret := models.Booking{}
	if err := h.GetDB().WithContext(c.Request.Context()).Preload("Provider").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostBooking create a booking
// @Tags        Booking
// @Summary     create a booking
// @Description create a booking and notify the provider owner
// @Accept      json
// @Produce     json
// @Param       form body     models.Booking                               true "booking"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Booking} "resp"
// @Router      /v1/booking [post]
// @Security    JWT
func (h *BookingHandler) PostBooking(c *gin.Context) {
	req := models.Booking{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	ctx := c.Request.Context()
	provider := models.Provider{}
	if err := h.GetDB().WithContext(ctx).First(&provider, req.ProviderID).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	req.Status = models.BookingStatusPending
	if err := h.GetDB().WithContext(ctx).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.NotifyUsers(ctx, models.Notification{
		Type:        models.NotificationTypeBooking,
		Title:       fmt.Sprintf("New booking for %s", provider.Name),
		Message:     fmt.Sprintf("%s requested %s", req.CustomerName, req.ServiceName),
		Link:        fmt.Sprintf("/bookings/%d", req.ID),
		LinkSection: "bookings",
	}, provider.OwnerID); err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.Created(c, req)
}

// PutBookingStatus transition a booking
// @Tags        Booking
// @Summary     transition a booking status
// @Description confirm, cancel or complete a booking
// @Accept      json
// @Produce     json
// @Param       id     path     uint                                         true "booking id"
// @Param       status path     string                                       true "target status"
// @Success     200    {object} handlers.ResponseStruct{Data=models.Booking} "resp"
// @Router      /v1/booking/{id}/status/{status} [put]
// @Security    JWT
func (h *BookingHandler) PutBookingStatus(c *gin.Context) {
	target := c.Param("status")
	ctx := c.Request.Context()
	ret := models.Booking{}
	if err := h.GetDB().WithContext(ctx).Preload("Provider").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if !allowedTransition(ret.Status, target) {
		handlers.NotOK(c, fmt.Errorf("booking can not go from %s to %s", ret.Status, target))
		return
	}
	if err := h.GetDB().WithContext(ctx).Model(&ret).Update("status", target).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if ret.Provider != nil {
		if err := h.NotifyUsers(ctx, models.Notification{
			Type:        models.NotificationTypeBooking,
			Title:       fmt.Sprintf("Booking for %s %s", ret.Provider.Name, target),
			Message:     fmt.Sprintf("Booking from %s is now %s", ret.CustomerName, target),
			Link:        fmt.Sprintf("/bookings/%d", ret.ID),
			LinkSection: "bookings",
		}, ret.Provider.OwnerID); err != nil {
			handlers.NotOK(c, err)
			return
		}
	}
	handlers.OK(c, ret)
}

// DeleteBooking delete a booking
// @Tags        Booking
// @Summary     delete a booking
// @Description delete a booking by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "booking id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/booking/{id} [delete]
// @Security    JWT
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	ret := models.Booking{}
	if err := h.GetDB().WithContext(c.Request.Context()).Delete(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.NoContent(c, nil)
}

func allowedTransition(from, to string) bool {
	for _, t := range bookingTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (h *BookingHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/booking", h.ListBooking)
	rg.GET("/booking/:id", h.GetBooking)
	rg.POST("/booking", h.PostBooking)
	rg.PUT("/booking/:id/status/:status", h.PutBookingStatus)
	rg.DELETE("/booking/:id", h.DeleteBooking)
}
