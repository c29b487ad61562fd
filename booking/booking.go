package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// IsActive reports whether the booking still occupies its slot on the
// provider's calendar and counts toward conflict checks.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether the status state machine allows moving
// from one status to another. Terminal statuses have no exits.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type CancelReason string

const (
	CancelReasonCustomerRequest     CancelReason = "customer_request"
	CancelReasonProviderUnavailable CancelReason = "provider_unavailable"
	CancelReasonEmergency           CancelReason = "emergency"
	CancelReasonOther               CancelReason = "other"
)

func (r CancelReason) Valid() bool {
	switch r {
	case CancelReasonCustomerRequest, CancelReasonProviderUnavailable, CancelReasonEmergency, CancelReasonOther:
		return true
	}
	return false
}

// ModificationRecord is one entry of a booking's append-only change log.
type ModificationRecord struct {
	ModifiedAt time.Time      `json:"modifiedAt"`
	ModifiedBy string         `json:"modifiedBy,omitempty"`
	Reason     string         `json:"reason"`
	Changes    map[string]any `json:"changes"`
}

type Booking struct {
	ID                 string               `json:"id"`
	TenantID           string               `json:"tenantId"`
	ServiceID          string               `json:"serviceId"`
	ProviderID         string               `json:"providerId"`
	CustomerName       string               `json:"customerName"`
	CustomerEmail      string               `json:"customerEmail"`
	CustomerPhone      string               `json:"customerPhone"`
	StartTime          time.Time            `json:"startTime"`
	EndTime            time.Time            `json:"endTime"`
	Status             Status               `json:"status"`
	Notes              string               `json:"notes,omitempty"`
	Metadata           map[string]any       `json:"metadata,omitempty"`
	SpecialRequests    string               `json:"specialRequests,omitempty"`
	RescheduleCount    int                  `json:"rescheduleCount"`
	CancellationReason CancelReason         `json:"cancellationReason,omitempty"`
	CancellationNotes  string               `json:"cancellationNotes,omitempty"`
	RefundRequested    bool                 `json:"refundRequested"`
	RefundEligible     bool                 `json:"refundEligible"`
	History            []ModificationRecord `json:"history,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}
