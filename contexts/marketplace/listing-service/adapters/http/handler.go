package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazar/contexts/marketplace/listing-service/application"
	"bazar/contexts/marketplace/listing-service/domain/entities"
	"bazar/contexts/marketplace/listing-service/ports"
	httptransport "bazar/contexts/marketplace/listing-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateHandler(ctx context.Context, actor ports.Actor, req httptransport.CreateListingRequest) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Create(ctx, actor, application.CreateListingInput{
		Kind:         req.Kind,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) GetHandler(ctx context.Context, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Get(ctx, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) ListHandler(ctx context.Context, filter ports.ListFilter) (httptransport.ListingsResponse, error) {
	listings, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.ListingsResponse{}, err
	}
	resp := httptransport.ListingsResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Items = make([]httptransport.ListingPayload, 0, len(listings))
	for _, listing := range listings {
		resp.Data.Items = append(resp.Data.Items, mapListingPayload(listing))
	}
	return resp, nil
}

func (h Handler) ApproveHandler(ctx context.Context, actor ports.Actor, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Approve(ctx, actor, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) RejectHandler(ctx context.Context, actor ports.Actor, listingID string, req httptransport.RejectListingRequest) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Reject(ctx, actor, listingID, req.Reason)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) CancelHandler(ctx context.Context, actor ports.Actor, listingID string, req httptransport.CancelListingRequest) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Cancel(ctx, actor, listingID, req.Reason)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) ReapproveHandler(ctx context.Context, actor ports.Actor, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Reapprove(ctx, actor, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) ExtendHandler(ctx context.Context, actor ports.Actor, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Extend(ctx, actor, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListingResponse(listing), nil
}

func (h Handler) DeleteHandler(ctx context.Context, actor ports.Actor, listingID string) (httptransport.DeleteListingResponse, error) {
	if err := h.Service.Delete(ctx, actor, listingID); err != nil {
		return httptransport.DeleteListingResponse{}, err
	}
	resp := httptransport.DeleteListingResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.ListingID = listingID
	resp.Data.Deleted = true
	return resp, nil
}

func mapListingResponse(listing entities.Listing) httptransport.ListingResponse {
	return httptransport.ListingResponse{
		Status:    "success",
		Data:      mapListingPayload(listing),
		Timestamp: timestamp(),
	}
}

func mapListingPayload(listing entities.Listing) httptransport.ListingPayload {
	payload := httptransport.ListingPayload{
		ListingID:       listing.ListingID,
		Kind:            string(listing.Kind),
		OwnerID:         listing.OwnerID,
		Title:           listing.Title,
		Description:     listing.Description,
		Price:           listing.Price,
		Status:          string(listing.Status),
		DurationDays:    listing.DurationDays,
		RejectionReason: listing.RejectionReason,
		CreatedAt:       listing.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       listing.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if listing.ApprovedAt != nil {
		payload.ApprovedAt = listing.ApprovedAt.UTC().Format(time.RFC3339)
	}
	if listing.ExpiresAt != nil {
		payload.ExpiresAt = listing.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
