package http

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type CreateListingRequest struct {
	Kind         string  `json:"kind"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price,omitempty"`
	DurationDays int     `json:"duration_days,omitempty"`
}

type RejectListingRequest struct {
	Reason string `json:"reason"`
}

type CancelListingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ListingPayload struct {
	ListingID       string  `json:"listing_id"`
	Kind            string  `json:"kind"`
	OwnerID         string  `json:"owner_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	DurationDays    int     `json:"duration_days"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ApprovedAt      string  `json:"approved_at,omitempty"`
	ExpiresAt       string  `json:"expires_at,omitempty"`
}

type ListingResponse struct {
	Status    string         `json:"status"`
	Data      ListingPayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type ListingsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []ListingPayload `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type DeleteListingResponse struct {
	Status string `json:"status"`
	Data   struct {
		ListingID string `json:"listing_id"`
		Deleted   bool   `json:"deleted"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
