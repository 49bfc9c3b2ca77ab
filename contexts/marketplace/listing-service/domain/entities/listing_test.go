package entities

import "testing"

func TestCanTransitionKindRules(t *testing.T) {
	cases := []struct {
		name   string
		kind   ListingKind
		status ListingStatus
		event  TransitionEvent
		want   bool
	}{
		{"approve pending", KindCar, StatusPending, EventApprove, true},
		{"approve rejected", KindCar, StatusRejected, EventApprove, true},
		{"approve expired", KindWatch, StatusExpired, EventApprove, true},
		{"approve approved retry", KindWatch, StatusApproved, EventApprove, true},
		{"approve cancelled", KindHousing, StatusCancelled, EventApprove, false},
		{"reject pending", KindCar, StatusPending, EventReject, true},
		{"reject approved", KindCar, StatusApproved, EventReject, true},
		{"reject expired", KindCar, StatusExpired, EventReject, false},
		{"cancel approved housing", KindHousing, StatusApproved, EventCancel, true},
		{"cancel approved car", KindCar, StatusApproved, EventCancel, false},
		{"cancel pending housing", KindHousing, StatusPending, EventCancel, false},
		{"reapprove cancelled", KindHousing, StatusCancelled, EventReapprove, true},
		{"reapprove rejected", KindWatch, StatusRejected, EventReapprove, true},
		{"reapprove pending", KindWatch, StatusPending, EventReapprove, false},
		{"extend expired any kind", KindCar, StatusExpired, EventExtend, true},
		{"extend approved housing", KindHousing, StatusApproved, EventExtend, true},
		{"extend approved car", KindCar, StatusApproved, EventExtend, false},
		{"delete pending", KindCar, StatusPending, EventDelete, true},
		{"delete approved", KindCar, StatusApproved, EventDelete, false},
	}

	for _, tc := range cases {
		listing := Listing{Kind: tc.kind, Status: tc.status}
		if got := listing.CanTransition(tc.event); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
